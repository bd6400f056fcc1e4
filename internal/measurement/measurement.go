// Package measurement turns loosely formatted measurement strings ("$13-22",
// "0.24-0.40", "100W", "N/A") into representative numbers used for
// aggregation and ranking. The original string is always kept for display.
package measurement

import (
	"math"
	"strconv"
	"strings"
)

// Sentinels the vision collaborator writes when it cannot estimate a value.
const (
	NotAvailable      = "N/A"
	UnableToDetermine = "Unable to determine"
)

// Extract returns a single non-negative representative value for s.
// Everything except digits, '.' and '-' is dropped; a two-sided range
// "low-high" yields the mean of both sides; anything unparseable is 0.
// A leading minus is read as a range with an empty low side, so "-5" is 2.5.
func Extract(s string) float64 {
	cleaned := clean(s)

	if strings.Count(cleaned, "-") == 1 {
		parts := strings.Split(cleaned, "-")
		if len(parts) == 2 {
			return (parseOrZero(parts[0]) + parseOrZero(parts[1])) / 2
		}
	}

	return math.Max(parseOrZero(cleaned), 0)
}

// Present reports whether a measurement field carries a value worth
// extracting. Nil, blank and sentinel strings are unknown values.
func Present(s *string) bool {
	if s == nil {
		return false
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return false
	}
	return !strings.EqualFold(v, NotAvailable) && !strings.EqualFold(v, UnableToDetermine)
}

// Value extracts s when it is present.
func Value(s *string) (float64, bool) {
	if !Present(s) {
		return 0, false
	}
	return Extract(*s), true
}

// Round2 rounds for display only; sums keep full precision until here.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, used for percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Display returns the stored string or the N/A sentinel.
func Display(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return NotAvailable
	}
	return *s
}

func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseOrZero reads the longest numeric prefix of s, so "13.5.2" is 13.5.
func parseOrZero(s string) float64 {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' && !seenDot {
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
