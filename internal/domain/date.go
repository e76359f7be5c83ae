package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for every date key.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date (or RFC3339 timestamp) into a UTC civil date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, value)
	}
	return CivilDate(t), nil
}

// CivilDate drops the clock part, keeping the calendar date in UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats t as an ISO date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
