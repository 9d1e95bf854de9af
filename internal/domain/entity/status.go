// internal/domain/entity/status.go
package entity

// RunStatus is the payload every top-level operation reports. Failure
// payloads carry only success and message.
type RunStatus struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Stats   *MergeStats `json:"stats,omitempty"`
}

// Failure builds a failed status payload.
func Failure(message string) RunStatus {
	return RunStatus{Success: false, Message: message}
}

// MergeStats summarizes a reconciliation run.
type MergeStats struct {
	TotalRecords      int `json:"total_records"`
	CompleteRecords   int `json:"complete_records"`
	IncompleteRecords int `json:"incomplete_records"`
}

// CleanStats summarizes a schedule-normalization run.
type CleanStats struct {
	OriginalCount     int `json:"original_count"`
	CleanedCount      int `json:"cleaned_count"`
	DuplicatesRemoved int `json:"duplicates_removed"`
}
