package usecase

import (
	"errors"
	"os"
)

// isOutputLocked reports whether a write failed because another process
// holds the destination file open, typically a spreadsheet application
// displaying the previous run's artifact.
func isOutputLocked(err error) bool {
	return errors.Is(err, os.ErrPermission) || isSharingViolation(err)
}
