package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

// CombineDateTime parses a date ("2026-03-10") and clock ("14:30") pair
// into one local instant.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}
