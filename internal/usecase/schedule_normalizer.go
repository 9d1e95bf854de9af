package usecase

import (
	"fmt"
	"os"
	"strings"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/normalize"
	"fuelops-service/pkg/tabular"
)

// headerProbeLimit caps how many leading row offsets are tried as the header
// row of a schedule export.
const headerProbeLimit = 10

// ScheduleSheetName is the cleaned schedule artifact's sheet.
const ScheduleSheetName = "Sheet1"

// nullKey stands in for a null cell inside duplicate keys, so two null cells
// compare equal the way two absent values do.
const nullKey = "\x00"

// ScheduleNormalizer cleans a raw flight-schedule export: locates its header
// row, normalizes identifiers and dates, and removes duplicate rows.
type ScheduleNormalizer struct {
	logger logger.Logger
}

// NewScheduleNormalizer creates a new schedule normalizer
func NewScheduleNormalizer(logger logger.Logger) *ScheduleNormalizer {
	return &ScheduleNormalizer{logger: logger}
}

// Run cleans the schedule export at inputPath and writes the result to
// outputPath, reporting original/cleaned/duplicate counts.
func (n *ScheduleNormalizer) Run(inputPath, outputPath string) (entity.RunStatus, error) {
	if _, err := os.Stat(inputPath); err != nil {
		wrapped := fmt.Errorf("%w: %s does not exist", ErrInvalidInput, inputPath)
		return entity.Failure(wrapped.Error()), wrapped
	}

	rows, err := tabular.ReadRows(inputPath)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %v", ErrInvalidSourceFile, inputPath, err)
		return entity.Failure(wrapped.Error()), wrapped
	}

	offset, err := findHeaderRow(rows)
	if err != nil {
		return entity.Failure(err.Error()), err
	}
	n.logger.Info("Header row located", "offset", offset)

	table, err := tabular.FromRows(rows, offset)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %v", ErrInvalidSourceFile, inputPath, err)
		return entity.Failure(wrapped.Error()), wrapped
	}

	if table.HasColumn(entity.ColScheduleCarrier) {
		table.DropColumn(entity.ColScheduleCarrier)
		n.logger.Debug("Dropped carrier column")
	}

	for _, col := range entity.ScheduleRequiredColumns {
		if !table.HasColumn(col) {
			wrapped := fmt.Errorf("%w: %q", ErrMissingColumn, col)
			return entity.Failure(wrapped.Error()), wrapped
		}
	}

	hasAircraft := table.HasColumn(entity.ColScheduleAircraft)
	if !hasAircraft {
		n.logger.Warn("Aircraft registration column missing, duplicate key degrades to (flight, date)")
	}

	table.Apply(entity.ColScheduleFlightID, normalize.FlightNumber)
	n.coerceDates(table)

	dropAllNullRequired(table)
	stats := entity.CleanStats{OriginalCount: len(table.Rows)}

	duplicateKey := []string{entity.ColScheduleFlightID, entity.ColScheduleDate}
	if hasAircraft {
		duplicateKey = append(duplicateKey, entity.ColScheduleAircraft)
	}
	dropDuplicates(table, duplicateKey)

	stats.CleanedCount = len(table.Rows)
	stats.DuplicatesRemoved = stats.OriginalCount - stats.CleanedCount

	if err := tabular.Write(outputPath, ScheduleSheetName, table, false, entity.ColScheduleFlightID); err != nil {
		if isOutputLocked(err) {
			wrapped := fmt.Errorf("%w: %s", ErrOutputLocked, outputPath)
			return entity.Failure(fmt.Sprintf("cannot save %s: close it in any spreadsheet application and retry", outputPath)), wrapped
		}
		return entity.Failure(fmt.Sprintf("failed to write %s: %v", outputPath, err)), err
	}

	n.logger.Info("Schedule normalized", "output", outputPath,
		"original", stats.OriginalCount, "cleaned", stats.CleanedCount, "duplicates", stats.DuplicatesRemoved)
	return entity.RunStatus{
		Success: true,
		Message: fmt.Sprintf("schedule cleaned, duplicates removed: %d", stats.DuplicatesRemoved),
		Data:    stats,
	}, nil
}

// findHeaderRow probes the first offsets for a row that is a superset of the
// required schedule columns.
func findHeaderRow(rows [][]string) (int, error) {
	limit := headerProbeLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for offset := 0; offset < limit; offset++ {
		present := make(map[string]bool, len(rows[offset]))
		for _, cell := range rows[offset] {
			present[strings.TrimSpace(cell)] = true
		}
		found := true
		for _, col := range entity.ScheduleRequiredColumns {
			if !present[col] {
				found = false
				break
			}
		}
		if found {
			return offset, nil
		}
	}
	return 0, fmt.Errorf("%w: required columns not in the first %d rows", ErrHeaderNotFound, headerProbeLimit)
}

// coerceDates reformats the operation-date column to DD/MM/YYYY, nulling
// values no layout matches.
func (n *ScheduleNormalizer) coerceDates(table *tabular.Table) {
	idx := table.ColumnIndex(entity.ColScheduleDate)
	if idx < 0 {
		return
	}
	for _, row := range table.Rows {
		if row[idx] == nil {
			continue
		}
		t, err := normalize.ParseDate(*row[idx])
		if err != nil {
			n.logger.Warn("Unparseable operation date", "value", *row[idx])
			row[idx] = nil
			continue
		}
		row[idx] = tabular.String(t.Format(normalize.DateLayout))
	}
}

// dropAllNullRequired removes rows where every required column is null.
func dropAllNullRequired(table *tabular.Table) {
	indices := make([]int, 0, len(entity.ScheduleRequiredColumns))
	for _, col := range entity.ScheduleRequiredColumns {
		indices = append(indices, table.ColumnIndex(col))
	}
	kept := table.Rows[:0]
	for _, row := range table.Rows {
		allNull := true
		for _, idx := range indices {
			if idx >= 0 && row[idx] != nil && *row[idx] != "" {
				allNull = false
				break
			}
		}
		if !allNull {
			kept = append(kept, row)
		}
	}
	table.Rows = kept
}

// dropDuplicates removes rows whose key columns repeat, keeping the first
// occurrence.
func dropDuplicates(table *tabular.Table, keyColumns []string) {
	indices := make([]int, 0, len(keyColumns))
	for _, col := range keyColumns {
		if idx := table.ColumnIndex(col); idx >= 0 {
			indices = append(indices, idx)
		}
	}
	seen := make(map[string]bool, len(table.Rows))
	kept := table.Rows[:0]
	for _, row := range table.Rows {
		parts := make([]string, len(indices))
		for i, idx := range indices {
			if row[idx] == nil {
				parts[i] = nullKey
			} else {
				parts[i] = *row[idx]
			}
		}
		key := strings.Join(parts, nullKey)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	table.Rows = kept
}
