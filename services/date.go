package services

import (
	"fmt"
	"regexp"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs and the
	// extraction output contract)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidEntryTime reports whether the string is an acceptable entry time.
// Times are free-form "HH:MM"; empty means unknown and is always valid.
func IsValidEntryTime(timeStr string) bool {
	if timeStr == "" {
		return true
	}
	return timePattern.MatchString(timeStr)
}
