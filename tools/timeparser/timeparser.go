package timeparser

import (
	"fmt"
	"strings"
	"time"
)

// ParseBillPeriod attempts to parse a bill period label with multiple formats
// and returns the first day of that month in UTC.
func ParseBillPeriod(label string) (time.Time, error) {
	formats := []string{
		"January 2006",  // November 2025
		"Jan 2006",      // Nov 2025
		"January, 2006", // November, 2025
		"01/2006",       // MM/YYYY
		"1/2006",        // M/YYYY
		"01.2006",       // MM.YYYY
		"2006-01",       // YYYY-MM
		"02/01/2006",    // DD/MM/YYYY
	}

	cleaned := strings.Join(strings.Fields(label), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("failed to parse bill period: empty label")
	}

	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, cleaned)
		if err == nil {
			return MonthStart(t), nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse bill period '%s': %w", label, lastErr)
}

// MonthStart truncates t to midnight UTC on the first of its month
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
