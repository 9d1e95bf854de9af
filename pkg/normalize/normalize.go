// Package normalize holds the canonical cleaning rules shared by the schedule
// normalizer and the reconciliation merger. Every function is idempotent:
// feeding its own output back in returns the same value.
package normalize

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the canonical date representation used across all artifacts.
const DateLayout = "02/01/2006"

// TimeLayout is the canonical time-of-day representation.
const TimeLayout = "15:04:05"

// dateLayouts are tried in order when parsing a raw date value.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04:05",
}

// timeLayouts are tried in order when parsing a raw time value.
var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

// excelEpoch is the serial-date origin used by spreadsheet files.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ErrUnparseable reports a value no known layout matched.
var ErrUnparseable = errors.New("unparseable value")

// FlightNumber reduces a flight identifier to its digit characters only,
// concatenated in their original order. "AF-123 " becomes "123".
func FlightNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseDate parses a raw date value against the known layouts, falling back to
// spreadsheet serial numbers.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "Z"))
	if raw == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), nil
	}
	return time.Time{}, ErrUnparseable
}

// Date reformats a raw date value to DD/MM/YYYY. Empty input stays empty and
// an unparseable value is returned unchanged.
func Date(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	t, err := ParseDate(trimmed)
	if err != nil {
		return trimmed
	}
	return t.Format(DateLayout)
}

// TimeOfDay reformats a raw time value to HH:MM:SS. Empty input stays empty
// and an unparseable value is returned unchanged.
func TimeOfDay(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(TimeLayout)
		}
	}
	return trimmed
}

// Airport trims an airport code. Codes arrive already upper-case from both
// sources; only whitespace varies.
func Airport(raw string) string {
	return strings.TrimSpace(raw)
}
