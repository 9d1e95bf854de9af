package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/internal/infrastructure/config"
	"fuelops-service/internal/infrastructure/oauth"
	"fuelops-service/internal/infrastructure/persistence"
	gmailNotifier "fuelops-service/internal/interface/gmail"
	mongoRepo "fuelops-service/internal/interface/repository"
	"fuelops-service/internal/usecase"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting Fuelops Service", "version", cfg.AppVersion)

	if err := cfg.EnsureOutputDirs(); err != nil {
		log.Fatal("Failed to create output directories", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	mergedRecordRepo := mongoRepo.NewMongoMergedRecordRepository(db)

	// Airport reference data is optional; without it prediction routes lack
	// airport names.
	var pipelineNotifier usecase.Notifier
	var predictor *usecase.PredictionHandoff
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airportRepository := mongoRepo.NewGormAirportRepository(gormDB)
		predictor = usecase.NewPredictionHandoff(airportRepository, log)
	} else {
		log.Warn("POSTGRES_DSN not set, routes will lack airport names")
		predictor = usecase.NewPredictionHandoff(nil, log)
	}

	// Set up Gmail notifications when credentials are present
	if cfg.GmailClientID != "" && cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(
			cfg.GmailClientID,
			cfg.GmailClientSecret,
			cfg.GmailRefreshToken,
			log,
		)
		notifier, err := gmailNotifier.NewNotifier(ctx, gmailOAuth.GetTokenSource(ctx), cfg.NotifyFrom, cfg.NotifyTo, log)
		if err != nil {
			log.Fatal("Failed to create Gmail notifier", "error", err)
		}
		pipelineNotifier = notifier
	} else {
		log.Warn("Gmail credentials not set, run notifications disabled")
	}

	pipelineMetrics := metrics.NewMetrics("fuelops")

	extractor := usecase.NewPlanExtractor(log)
	collector := usecase.NewBatchCollector(extractor, log)
	normalizer := usecase.NewScheduleNormalizer(log)
	merger := usecase.NewMerger(usecase.RetryPolicy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
	}, log)
	pipeline := usecase.NewPipeline(collector, normalizer, merger, mergedRecordRepo, pipelineNotifier, pipelineMetrics, log)

	paths := usecase.PipelinePaths{
		DataRoot:       cfg.DataRoot,
		ScheduleInput:  cfg.ScheduleInput,
		ScheduleOutput: cfg.ScheduleOutput,
		MergedOutput:   cfg.MergedOutput,
	}

	var statusMu sync.RWMutex
	lastStatus := entity.RunStatus{Success: false, Message: "no run completed yet"}

	checker := usecase.NewMissingDataChecker(log)

	runOnce := func() {
		status := pipeline.Run(ctx, paths)
		if status.Success {
			if predStatus, err := predictor.Run(ctx, filepath.Join(cfg.DataRoot, usecase.FuelDataFileName), cfg.PredictionOutput); err != nil {
				log.Error("Prediction hand-off failed", "message", predStatus.Message)
			}
			audit := checker.Run(artifactChecks(cfg))
			log.Info("Artifact audit finished", "message", audit.Message)
		}
		statusMu.Lock()
		lastStatus = status
		statusMu.Unlock()
	}

	// Run the pipeline on an interval in a goroutine
	go func() {
		runOnce()

		runTicker := time.NewTicker(cfg.RunInterval)
		defer runTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Pipeline runner stopped")
				return
			case <-runTicker.C:
				log.Info("Scheduled pipeline run starting")
				runOnce()
			}
		}
	}()

	// Set up HTTP server for status and metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		statusMu.RLock()
		status := lastStatus
		statusMu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the pipeline runner

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Fuelops Service stopped")
}

// artifactChecks lists the pipeline artifacts audited for missing data after
// each successful run.
func artifactChecks(cfg *config.Config) []usecase.ArtifactCheck {
	return []usecase.ArtifactCheck{
		{
			Name:            "fuel_data",
			Path:            filepath.Join(cfg.DataRoot, usecase.FuelDataFileName),
			RequiredColumns: []string{entity.ColFlightNumber, entity.ColFlightDate, entity.ColBlockFuel},
		},
		{
			Name:            "merged",
			Path:            cfg.MergedOutput,
			RequiredColumns: []string{entity.ColFlightNumber, entity.ColFlightDate},
		},
	}
}
