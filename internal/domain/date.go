// internal/domain/date.go
package domain

import (
	"strings"
	"time"

	"finflow-tracker/internal/util"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
// A full RFC 3339 timestamp is accepted and truncated to its date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, util.Invalid("date %q must be in YYYY-MM-DD format", s)
	}
	return DateOf(t), nil
}

// DateOf drops the time-of-day component, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD, or "" for a nil date.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
