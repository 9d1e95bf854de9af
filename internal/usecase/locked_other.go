//go:build !windows

package usecase

func isSharingViolation(error) bool {
	return false
}
