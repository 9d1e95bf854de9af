package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/internal/infrastructure/config"
	"fuelops-service/internal/usecase"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/metrics"
)

// One-shot pipeline run. Prints the run status as JSON on stdout and exits
// non-zero when the run fails. Persistence and notifications are skipped so
// the binary works against a plain directory of input files.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)

	if err := cfg.EnsureOutputDirs(); err != nil {
		log.Fatal("Failed to create output directories", "error", err)
	}

	extractor := usecase.NewPlanExtractor(log)
	collector := usecase.NewBatchCollector(extractor, log)
	normalizer := usecase.NewScheduleNormalizer(log)
	merger := usecase.NewMerger(usecase.RetryPolicy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
	}, log)
	pipeline := usecase.NewPipeline(collector, normalizer, merger, nil, nil, metrics.NewMetrics("fuelops"), log)

	status := pipeline.Run(context.Background(), usecase.PipelinePaths{
		DataRoot:       cfg.DataRoot,
		ScheduleInput:  cfg.ScheduleInput,
		ScheduleOutput: cfg.ScheduleOutput,
		MergedOutput:   cfg.MergedOutput,
	})

	if status.Success {
		predictor := usecase.NewPredictionHandoff(nil, log)
		if predStatus, err := predictor.Run(context.Background(), filepath.Join(cfg.DataRoot, usecase.FuelDataFileName), cfg.PredictionOutput); err != nil {
			log.Error("Prediction hand-off failed", "message", predStatus.Message)
		}

		checker := usecase.NewMissingDataChecker(log)
		audit := checker.Run([]usecase.ArtifactCheck{
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
		})
		log.Info("Artifact audit finished", "message", audit.Message)
	}

	json.NewEncoder(os.Stdout).Encode(status)

	if !status.Success {
		os.Exit(1)
	}
}
