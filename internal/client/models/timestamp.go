package models

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form used for createdAt/updatedAt:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// dateOnlyLayout is the form accepted for due dates entered without a time.
const dateOnlyLayout = "2006-01-02"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses createdAt/updatedAt values. Any RFC 3339 timestamp
// is accepted.
func ParseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDueDate parses a due date given either as YYYY-MM-DD (UTC midnight)
// or as an RFC 3339 timestamp. ok is false for empty or unparsable input.
func ParseDueDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC); err == nil {
		return d, true
	}
	return ParseTimestamp(s)
}
