//go:build windows

package usecase

import (
	"errors"
	"syscall"
)

// A file held open by a spreadsheet application surfaces as a sharing
// violation, which the os package does not classify as a permission error.
func isSharingViolation(err error) bool {
	return errors.Is(err, syscall.ERROR_SHARING_VIOLATION)
}
