package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/internal/domain/repository"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/metrics"
	"fuelops-service/pkg/tabular"
)

// Notifier delivers run-outcome notifications to an external sink.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// PipelinePaths carries the filesystem layout a pipeline run works over.
type PipelinePaths struct {
	DataRoot       string // walked for flight plan documents
	ScheduleInput  string // raw schedule export
	ScheduleOutput string // cleaned schedule artifact
	MergedOutput   string // merged artifact
}

// Pipeline runs extraction, normalization and reconciliation as one unit and
// pushes the finalized rows to the document store.
type Pipeline struct {
	collector  *BatchCollector
	normalizer *ScheduleNormalizer
	merger     *Merger
	mergedRepo repository.MergedRecordRepository
	notifier   Notifier
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewPipeline creates a new pipeline. The merged-record repository and the
// notifier may be nil; persistence and notification are then skipped.
func NewPipeline(
	collector *BatchCollector,
	normalizer *ScheduleNormalizer,
	merger *Merger,
	mergedRepo repository.MergedRecordRepository,
	notifier Notifier,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Pipeline {
	return &Pipeline{
		collector:  collector,
		normalizer: normalizer,
		merger:     merger,
		mergedRepo: mergedRepo,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run executes the full pipeline over the given paths. Any stage failure
// aborts the run with that stage's payload.
func (p *Pipeline) Run(ctx context.Context, paths PipelinePaths) entity.RunStatus {
	start := time.Now()
	p.logger.Info("Pipeline run starting", "dataRoot", paths.DataRoot)

	extractStatus, err := p.collector.Run(paths.DataRoot)
	if err != nil || !extractStatus.Success {
		return p.fail(ctx, "extraction", extractStatus)
	}
	if data, ok := extractStatus.Data.(map[string]interface{}); ok {
		if n, ok := data["record_count"].(int); ok {
			p.metrics.PlansExtracted.Add(float64(n))
		}
		if n, ok := data["skipped_count"].(int); ok {
			p.metrics.FilesSkipped.Add(float64(n))
		}
	}

	normalizeStatus, err := p.normalizer.Run(paths.ScheduleInput, paths.ScheduleOutput)
	if err != nil {
		return p.fail(ctx, "normalization", normalizeStatus)
	}

	fuelArtifact := filepath.Join(paths.DataRoot, FuelDataFileName)
	mergeStatus, err := p.merger.Run(fuelArtifact, paths.ScheduleOutput, paths.MergedOutput)
	if err != nil {
		return p.fail(ctx, "merge", mergeStatus)
	}
	if mergeStatus.Stats != nil {
		p.metrics.RecordsMerged.Add(float64(mergeStatus.Stats.TotalRecords))
	}

	synced, err := p.syncMergedRecords(ctx, paths.MergedOutput)
	if err != nil {
		p.logger.Error("Document store sync failed", "error", err)
		p.metrics.ErrorsCount.WithLabelValues("sync").Inc()
	}

	duration := time.Since(start)
	p.metrics.RunDuration.Observe(duration.Seconds())

	message := fmt.Sprintf("processing finished in %.2f seconds, %d records merged",
		duration.Seconds(), mergeStatus.Stats.TotalRecords)
	p.notify(ctx, "Data Processing Complete", message)
	p.logger.Info("Pipeline run finished", "duration", duration, "synced", synced)

	return entity.RunStatus{
		Success: true,
		Message: message,
		Data: map[string]interface{}{
			"duration_seconds": duration.Seconds(),
			"records_synced":   synced,
			"clean_stats":      normalizeStatus.Data,
		},
		Stats: mergeStatus.Stats,
	}
}

// fail reports a stage failure through metrics and notification and returns
// the stage's payload unchanged.
func (p *Pipeline) fail(ctx context.Context, stage string, status entity.RunStatus) entity.RunStatus {
	p.metrics.ErrorsCount.WithLabelValues(stage).Inc()
	p.logger.Error("Pipeline stage failed", "stage", stage, "message", status.Message)
	p.notify(ctx, "Data Processing Failed", fmt.Sprintf("%s: %s", stage, status.Message))
	return status
}

func (p *Pipeline) notify(ctx context.Context, subject, body string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, subject, body); err != nil {
		p.logger.Error("Notification failed", "subject", subject, "error", err)
		p.metrics.ErrorsCount.WithLabelValues("notify").Inc()
	}
}

// syncMergedRecords upserts every identifiable merged row to the document
// store, keyed by (flight number, date).
func (p *Pipeline) syncMergedRecords(ctx context.Context, mergedPath string) (int, error) {
	if p.mergedRepo == nil {
		return 0, nil
	}
	table, err := tabular.Read(mergedPath)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range table.Rows {
		record := mergedRecordFromRow(table, i)
		if record == nil {
			continue
		}
		if err := p.mergedRepo.Upsert(ctx, record); err != nil {
			return synced, err
		}
		synced++
		p.metrics.RecordsSynced.Inc()
	}
	return synced, nil
}

// mergedRecordFromRow builds the document-store record for one merged row,
// or nil when the row has no flight identity to key on.
func mergedRecordFromRow(table *tabular.Table, row int) *entity.MergedRecord {
	str := func(col string) string {
		if cell := table.Cell(row, col); cell != nil {
			return *cell
		}
		return ""
	}
	num := func(col string) float64 {
		if cell := table.Cell(row, col); cell != nil {
			if v, err := strconv.ParseFloat(*cell, 64); err == nil {
				return v
			}
		}
		return 0
	}

	flightNumber := str(entity.ColFlightNumber)
	flightDate := str(entity.ColFlightDate)
	if flightNumber == "" || flightDate == "" {
		return nil
	}

	fields := make(map[string]interface{}, len(table.Columns))
	for _, col := range table.Columns {
		if cell := table.Cell(row, col); cell != nil {
			fields[col] = *cell
		}
	}

	return &entity.MergedRecord{
		FlightKey:        entity.FlightKeyOf(flightNumber, flightDate),
		FlightNumber:     flightNumber,
		FlightDate:       flightDate,
		TimeOfDeparture:  str(entity.ColDepartureTime),
		DepartureAirport: str(entity.ColDepartureAirport),
		ArrivalAirport:   str(entity.ColArrivalAirport),
		BlockFuel:        num(entity.ColBlockFuel),
		TripFuel:         num(entity.ColTripFuel),
		FuelOnBoard:      num(entity.ColFuelOnBoard),
		AirDistanceNM:    num(entity.ColAirDistance),
		CarbonEmissionKg: num(entity.ColCarbonEmission),
		DataComplete:     str(entity.ColDataComplete) == flagTrue,
		Fields:           fields,
	}
}
