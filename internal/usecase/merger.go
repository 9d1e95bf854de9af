package usecase

import (
	"archive/zip"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/normalize"
	"fuelops-service/pkg/tabular"
)

// Source suffixes distinguishing collision columns during the merge, schedule
// side first.
const (
	scheduleSuffix = "_flight"
	fuelSuffix     = "_fuel"
)

// Python-style booleans, kept for the consumers reading the merged artifact.
const (
	flagTrue  = "True"
	flagFalse = "False"
)

// collisionColumns are resolved schedule-first after the merge and their
// suffixed source columns dropped.
var collisionColumns = []string{
	entity.ColDepartureAirport, entity.ColArrivalAirport, entity.ColDepartureTime,
}

// joinCandidates is the key column set; the join uses whichever of these both
// sides carry.
var joinCandidates = []string{entity.ColFlightNumber, entity.ColFlightDate}

// RetryPolicy bounds source reads against transient file locks.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy tolerates a spreadsheet application briefly holding a
// source file open.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 2 * time.Second}

// Merger reconciles the flight-plan artifact and the cleaned schedule into
// one merged dataset keyed by flight identity.
type Merger struct {
	retry  RetryPolicy
	logger logger.Logger

	// overridable in tests
	readTable func(path string) (*tabular.Table, error)
	sleep     func(d time.Duration)
}

// NewMerger creates a new reconciliation merger
func NewMerger(retry RetryPolicy, logger logger.Logger) *Merger {
	return &Merger{
		retry:     retry,
		logger:    logger,
		readTable: tabular.Read,
		sleep:     time.Sleep,
	}
}

// Run merges the artifacts at fuelPath and schedulePath into outputPath and
// reports total/complete/incomplete record counts.
func (m *Merger) Run(fuelPath, schedulePath, outputPath string) (entity.RunStatus, error) {
	merged, err := m.MergedTable(fuelPath, schedulePath)
	if err != nil {
		return entity.Failure(err.Error()), err
	}

	stats := &entity.MergeStats{TotalRecords: len(merged.Rows)}
	flagIdx := merged.ColumnIndex(entity.ColDataComplete)
	for _, row := range merged.Rows {
		if row[flagIdx] != nil && *row[flagIdx] == flagTrue {
			stats.CompleteRecords++
		}
	}
	stats.IncompleteRecords = stats.TotalRecords - stats.CompleteRecords

	if err := tabular.Write(outputPath, ScheduleSheetName, merged, false, entity.ColFlightNumber); err != nil {
		if isOutputLocked(err) {
			wrapped := fmt.Errorf("%w: %s", ErrOutputLocked, outputPath)
			return entity.Failure(fmt.Sprintf("cannot save %s: close it in any spreadsheet application and retry", outputPath)), wrapped
		}
		return entity.Failure(fmt.Sprintf("failed to write %s: %v", outputPath, err)), err
	}

	m.logger.Info("Merge finished", "output", outputPath,
		"total", stats.TotalRecords, "complete", stats.CompleteRecords, "incomplete", stats.IncompleteRecords)
	return entity.RunStatus{
		Success: true,
		Message: fmt.Sprintf("merge complete: %s", outputPath),
		Stats:   stats,
	}, nil
}

// MergedTable validates, reads, normalizes and joins the two sources,
// returning the merged dataset before serialization.
func (m *Merger) MergedTable(fuelPath, schedulePath string) (*tabular.Table, error) {
	for _, path := range []string{fuelPath, schedulePath} {
		if err := validateContainer(path); err != nil {
			return nil, err
		}
	}

	fuelTable, err := m.readWithRetry(fuelPath)
	if err != nil {
		return nil, err
	}
	scheduleTable, err := m.readWithRetry(schedulePath)
	if err != nil {
		return nil, err
	}

	scheduleTable.RenameColumns(entity.ScheduleRenames)

	// Re-normalizing already-normalized columns is a no-op, so both sides
	// go through the same rules regardless of which pipeline produced them.
	for _, t := range []*tabular.Table{fuelTable, scheduleTable} {
		t.Apply(entity.ColFlightNumber, normalize.FlightNumber)
		t.Apply(entity.ColFlightDate, normalize.Date)
		t.Apply(entity.ColDepartureTime, normalize.TimeOfDay)
		t.Apply(entity.ColArrivalAirport, normalize.Airport)
		t.Apply(entity.ColDepartureAirport, normalize.Airport)
	}

	joinKey := make([]string, 0, len(joinCandidates))
	for _, col := range joinCandidates {
		if fuelTable.HasColumn(col) && scheduleTable.HasColumn(col) {
			joinKey = append(joinKey, col)
		}
	}
	if len(joinKey) == 0 {
		return nil, fmt.Errorf("%w: neither %q nor %q is present in both sources",
			ErrNoJoinKey, entity.ColFlightNumber, entity.ColFlightDate)
	}
	m.logger.Info("Merging sources", "joinKey", joinKey)

	merged := outerJoin(scheduleTable, fuelTable, joinKey)
	flagCompleteness(merged)
	resolveCollisions(merged)
	merged.Reorder(entity.MergedOrderedColumns)
	coerceNumerics(merged)
	dropFullyNullRows(merged)
	return merged, nil
}

// validateContainer checks the path exists and holds a structurally valid
// archive-backed spreadsheet.
func validateContainer(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s not found", ErrInvalidSourceFile, path)
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid spreadsheet container", ErrInvalidSourceFile, path)
	}
	return r.Close()
}

// readWithRetry reads a source spreadsheet, retrying on failure to tolerate
// transient locks held by concurrent writers.
func (m *Merger) readWithRetry(path string) (*tabular.Table, error) {
	var lastErr error
	for attempt := 1; attempt <= m.retry.Attempts; attempt++ {
		table, err := m.readTable(path)
		if err == nil {
			return table, nil
		}
		lastErr = err
		m.logger.Warn("Source read failed", "path", path, "attempt", attempt, "error", err)
		if attempt < m.retry.Attempts {
			m.sleep(m.retry.Delay)
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrSourceUnreadable, path, m.retry.Attempts, lastErr)
}

// outerJoin performs a full outer join of the schedule (left) and fuel
// (right) tables on the key columns. Overlapping non-key columns get source
// suffixes. Rows with a null key cell never match anything.
func outerJoin(schedule, fuel *tabular.Table, joinKey []string) *tabular.Table {
	isKey := func(col string) bool { return contains(joinKey, col) }

	overlap := make(map[string]bool)
	for _, col := range schedule.Columns {
		if !isKey(col) && fuel.HasColumn(col) {
			overlap[col] = true
		}
	}

	merged := tabular.New()
	for _, col := range schedule.Columns {
		if overlap[col] {
			merged.Columns = append(merged.Columns, col+scheduleSuffix)
		} else {
			merged.Columns = append(merged.Columns, col)
		}
	}
	for _, col := range fuel.Columns {
		if isKey(col) {
			continue
		}
		if overlap[col] {
			merged.Columns = append(merged.Columns, col+fuelSuffix)
		} else {
			merged.Columns = append(merged.Columns, col)
		}
	}

	keyIndices := func(t *tabular.Table) []int {
		indices := make([]int, len(joinKey))
		for i, col := range joinKey {
			indices[i] = t.ColumnIndex(col)
		}
		return indices
	}
	rowKey := func(row []*string, indices []int) (string, bool) {
		parts := make([]string, len(indices))
		for i, idx := range indices {
			if row[idx] == nil {
				return "", false
			}
			parts[i] = *row[idx]
		}
		return strings.Join(parts, "\x00"), true
	}

	scheduleKeyIdx := keyIndices(schedule)
	fuelKeyIdx := keyIndices(fuel)

	fuelByKey := make(map[string][]int)
	for i, row := range fuel.Rows {
		if key, ok := rowKey(row, fuelKeyIdx); ok {
			fuelByKey[key] = append(fuelByKey[key], i)
		}
	}

	appendJoined := func(scheduleRow, fuelRow []*string) {
		cells := make([]*string, 0, len(merged.Columns))
		if scheduleRow != nil {
			cells = append(cells, scheduleRow...)
		} else {
			pad := make([]*string, len(schedule.Columns))
			for i := range joinKey {
				// key values come from the fuel side
				pad[scheduleKeyIdx[i]] = fuelRow[fuelKeyIdx[i]]
			}
			cells = append(cells, pad...)
		}
		for idx, col := range fuel.Columns {
			if isKey(col) {
				continue
			}
			if fuelRow != nil {
				cells = append(cells, fuelRow[idx])
			} else {
				cells = append(cells, nil)
			}
		}
		merged.AppendRow(cells)
	}

	matched := make(map[int]bool)
	for _, scheduleRow := range schedule.Rows {
		key, ok := rowKey(scheduleRow, scheduleKeyIdx)
		if !ok || len(fuelByKey[key]) == 0 {
			appendJoined(scheduleRow, nil)
			continue
		}
		for _, fuelIdx := range fuelByKey[key] {
			matched[fuelIdx] = true
			appendJoined(scheduleRow, fuel.Rows[fuelIdx])
		}
	}
	for i, fuelRow := range fuel.Rows {
		if !matched[i] {
			appendJoined(nil, fuelRow)
		}
	}

	return merged
}

// flagCompleteness appends the Data_Complete column: true when the two
// sources agree on every comparison column present from both sides, two
// absent values counting as agreement.
func flagCompleteness(merged *tabular.Table) {
	type pair struct{ schedule, fuel int }
	pairs := make([]pair, 0, len(entity.CompletenessColumns))
	for _, col := range entity.CompletenessColumns {
		s := merged.ColumnIndex(col + scheduleSuffix)
		f := merged.ColumnIndex(col + fuelSuffix)
		if s >= 0 && f >= 0 {
			pairs = append(pairs, pair{s, f})
		}
	}

	idx := merged.AddColumn(entity.ColDataComplete)
	for _, row := range merged.Rows {
		complete := true
		for _, p := range pairs {
			sv, fv := row[p.schedule], row[p.fuel]
			if sv == nil && fv == nil {
				continue
			}
			if sv == nil || fv == nil || strings.TrimSpace(*sv) != strings.TrimSpace(*fv) {
				complete = false
				break
			}
		}
		if complete {
			row[idx] = tabular.String(flagTrue)
		} else {
			row[idx] = tabular.String(flagFalse)
		}
	}
}

// resolveCollisions folds each suffixed column pair into one column,
// preferring the schedule-side value and falling back to the plan side.
func resolveCollisions(merged *tabular.Table) {
	for _, col := range collisionColumns {
		scheduleIdx := merged.ColumnIndex(col + scheduleSuffix)
		fuelIdx := merged.ColumnIndex(col + fuelSuffix)
		switch {
		case scheduleIdx >= 0 && fuelIdx >= 0:
			idx := merged.AddColumn(col)
			for _, row := range merged.Rows {
				if row[scheduleIdx] != nil {
					row[idx] = row[scheduleIdx]
				} else {
					row[idx] = row[fuelIdx]
				}
			}
			merged.DropColumn(col + scheduleSuffix)
			merged.DropColumn(col + fuelSuffix)
		case scheduleIdx >= 0:
			merged.Columns[scheduleIdx] = col
		case fuelIdx >= 0:
			merged.Columns[fuelIdx] = col
		}
	}
}

// coerceNumerics converts the numeric columns to decimals rounded to 3
// places; values that do not parse become nulls.
func coerceNumerics(merged *tabular.Table) {
	for _, col := range entity.MergedNumericColumns {
		idx := merged.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for _, row := range merged.Rows {
			if row[idx] == nil {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(*row[idx]), 64)
			if err != nil {
				row[idx] = nil
				continue
			}
			row[idx] = tabular.String(strconv.FormatFloat(round3(v), 'f', -1, 64))
		}
	}
}

// dropFullyNullRows removes rows whose every column besides the completeness
// flag is null.
func dropFullyNullRows(merged *tabular.Table) {
	flagIdx := merged.ColumnIndex(entity.ColDataComplete)
	kept := merged.Rows[:0]
	for _, row := range merged.Rows {
		empty := true
		for i, cell := range row {
			if i != flagIdx && cell != nil {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}
	merged.Rows = kept
}

func contains(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}
