package usecase

import (
	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/tabular"
)

// sampleRowLimit caps how many offending row indexes a gap report carries.
const sampleRowLimit = 10

// ArtifactCheck names one artifact to audit and the columns it must fill.
type ArtifactCheck struct {
	Name            string
	Path            string
	RequiredColumns []string
}

// ColumnGap describes null cells found in one required column.
type ColumnGap struct {
	Count     int   `json:"count"`
	Rows      []int `json:"rows"`
	TotalRows int   `json:"total_rows"`
}

// MissingDataChecker audits pipeline artifacts for null key cells and fully
// empty rows.
type MissingDataChecker struct {
	logger logger.Logger
}

// NewMissingDataChecker creates a new missing data checker
func NewMissingDataChecker(logger logger.Logger) *MissingDataChecker {
	return &MissingDataChecker{logger: logger}
}

// Run audits each artifact and reports per-column gaps with sample row
// indexes. A clean audit is a success payload with empty details.
func (c *MissingDataChecker) Run(checks []ArtifactCheck) entity.RunStatus {
	details := make(map[string]interface{})

	for _, check := range checks {
		table, err := tabular.Read(check.Path)
		if err != nil {
			details[check.Name] = map[string]interface{}{"error": err.Error()}
			continue
		}

		missing := make(map[string]interface{})
		for _, col := range check.RequiredColumns {
			idx := table.ColumnIndex(col)
			if idx < 0 {
				continue
			}
			gap := ColumnGap{TotalRows: len(table.Rows)}
			for i, row := range table.Rows {
				if row[idx] == nil {
					gap.Count++
					if len(gap.Rows) < sampleRowLimit {
						gap.Rows = append(gap.Rows, i)
					}
				}
			}
			if gap.Count > 0 {
				missing[col] = gap
			}
		}

		var emptyRows []int
		for i, row := range table.Rows {
			empty := true
			for _, cell := range row {
				if cell != nil {
					empty = false
					break
				}
			}
			if empty {
				emptyRows = append(emptyRows, i)
			}
		}
		if len(emptyRows) > 0 {
			sample := emptyRows
			if len(sample) > sampleRowLimit {
				sample = sample[:sampleRowLimit]
			}
			missing["empty_rows"] = map[string]interface{}{
				"count": len(emptyRows),
				"rows":  sample,
			}
		}

		if len(missing) > 0 {
			details[check.Name] = missing
		}
	}

	if len(details) == 0 {
		return entity.RunStatus{Success: true, Message: "no missing data detected", Data: details}
	}
	c.logger.Warn("Missing data detected", "artifacts", len(details))
	return entity.RunStatus{Success: false, Message: "missing data detected", Data: details}
}
