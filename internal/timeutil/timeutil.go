package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ISOLayout matches the millisecond UTC timestamps the backend emits ("2024-01-15T10:30:00.000Z").
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseTimestamp accepts RFC3339 timestamps (with or without fractional seconds) and bare dates.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timeutil: empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := ParseDate(value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timeutil: unrecognized timestamp %q", value)
}
