package usecase

import "errors"

// Pipeline error taxonomy. Callers branch on these with errors.Is; the
// wrapped messages carry the offending path or column.
var (
	// ErrMalformedDocument reports a flight-plan file whose XML does not
	// parse. Batch extraction skips the file and continues.
	ErrMalformedDocument = errors.New("malformed flight plan document")

	// ErrInvalidInput reports a bad input path. No side effects occurred.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSourceFile reports a source spreadsheet that is not a valid
	// archive-backed container.
	ErrInvalidSourceFile = errors.New("invalid source file")

	// ErrHeaderNotFound reports that no candidate offset in the schedule
	// export held the required header columns.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrMissingColumn reports a required schedule column absent after
	// header detection.
	ErrMissingColumn = errors.New("required column missing")

	// ErrSourceUnreadable reports a source read that failed through every
	// retry attempt.
	ErrSourceUnreadable = errors.New("source unreadable after retries")

	// ErrOutputLocked reports a destination file held open by another
	// process.
	ErrOutputLocked = errors.New("output file locked")

	// ErrNoJoinKey reports that the two sources share no join column.
	ErrNoJoinKey = errors.New("no common join column")
)
