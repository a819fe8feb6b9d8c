package storage

import (
	"fmt"
	"time"
)

// ParseTime parses the timestamp formats written by the stores and by SQLite defaults.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// sortableTime keeps a fixed fractional width so stored timestamps order lexically.
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC with fixed-width nanoseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(sortableTime)
}
