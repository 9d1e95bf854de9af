//go:build windows

package usecase

import (
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOutputLockedSharingViolation(t *testing.T) {
	assert.True(t, isOutputLocked(syscall.ERROR_SHARING_VIOLATION))
	assert.True(t, isOutputLocked(&fs.PathError{
		Op:   "open",
		Path: "out.xlsx",
		Err:  syscall.ERROR_SHARING_VIOLATION,
	}))
}
