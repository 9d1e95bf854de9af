package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/tabular"
)

// PlanFileName is the flight-plan document name matched case-insensitively
// during directory walks.
const PlanFileName = "ofp.xml"

// FuelDataFileName is the flight-plan artifact written into the walk root.
const FuelDataFileName = "all_fuel_data.xlsx"

// FuelSheetName is the artifact's single sheet.
const FuelSheetName = "Flight Fuel Data"

// BatchCollector walks a directory tree, extracts every flight plan document
// it finds, and serializes the records to the flight-plan artifact.
type BatchCollector struct {
	extractor *PlanExtractor
	logger    logger.Logger
}

// NewBatchCollector creates a new batch collector
func NewBatchCollector(extractor *PlanExtractor, logger logger.Logger) *BatchCollector {
	return &BatchCollector{extractor: extractor, logger: logger}
}

// Collect walks root and extracts a FuelRecord per flight plan document.
// Extraction failures skip that file; the walk itself never aborts. WalkDir
// is lexical, so record order is stable for a fixed directory snapshot. The
// second return value counts matching files that were skipped as unreadable
// or malformed.
func (c *BatchCollector) Collect(root string) ([]*entity.FuelRecord, int, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is not a valid directory", ErrInvalidInput, root)
	}

	var records []*entity.FuelRecord
	skipped := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Warn("Skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), PlanFileName) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Error("Failed to read flight plan", "path", path, "error", err)
			skipped++
			return nil
		}
		record, err := c.extractor.Extract(data, filepath.Dir(path))
		if err != nil {
			c.logger.Error("Failed to extract flight plan", "path", path, "error", err)
			skipped++
			return nil
		}
		records = append(records, record)
		c.logger.Debug("Extracted flight plan", "path", path, "flight", record.FlightNumber)
		return nil
	})
	if walkErr != nil {
		return nil, skipped, fmt.Errorf("%w: walking %s: %v", ErrInvalidInput, root, walkErr)
	}

	c.logger.Info("Flight plan collection finished", "root", root, "records", len(records), "skipped", skipped)
	return records, skipped, nil
}

// Run collects all flight plans under root and writes the artifact into that
// same root. Zero matching files is a reported empty-result payload, not an
// error, and leaves no artifact behind.
func (c *BatchCollector) Run(root string) (entity.RunStatus, error) {
	records, skipped, err := c.Collect(root)
	if err != nil {
		return entity.Failure(err.Error()), err
	}
	if len(records) == 0 {
		return entity.Failure(fmt.Sprintf("no flight plan files found in %s", root)), nil
	}

	output := filepath.Join(root, FuelDataFileName)
	if err := WriteFuelData(records, output); err != nil {
		if errors.Is(err, ErrOutputLocked) {
			return entity.Failure(fmt.Sprintf("cannot save %s: close it in any spreadsheet application and retry", output)), err
		}
		return entity.Failure(fmt.Sprintf("failed to write %s: %v", output, err)), err
	}

	c.logger.Info("Fuel data artifact written", "output", output, "records", len(records))
	return entity.RunStatus{
		Success: true,
		Message: fmt.Sprintf("fuel data extraction complete: %s", output),
		Data: map[string]interface{}{
			"record_count":  len(records),
			"skipped_count": skipped,
			"output":        output,
		},
	}, nil
}

// WriteFuelData serializes records in the fixed 21-column order with a styled
// header. Columns a record does not carry are back-filled with empty strings.
func WriteFuelData(records []*entity.FuelRecord, path string) error {
	table := tabular.New(entity.FuelDataColumns...)
	for _, record := range records {
		cells := record.CellMap()
		row := make([]*string, len(entity.FuelDataColumns))
		for i, col := range entity.FuelDataColumns {
			row[i] = tabular.String(cells[col])
		}
		table.AppendRow(row)
	}

	if err := tabular.Write(path, FuelSheetName, table, true, entity.ColFlightNumber); err != nil {
		if isOutputLocked(err) {
			return fmt.Errorf("%w: %s", ErrOutputLocked, path)
		}
		return err
	}
	return nil
}
