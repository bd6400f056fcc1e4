package timeparser_test

import (
	"testing"
	"time"

	"github.com/septivank/energy-insights/tools/timeparser"
)

func TestParseBillPeriod_MonthName(t *testing.T) {
	result, err := timeparser.ParseBillPeriod("November 2025")
	if err != nil {
		t.Fatalf("Failed to parse period: %v", err)
	}

	expected := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseBillPeriod_ShortMonthWithExtraSpaces(t *testing.T) {
	result, err := timeparser.ParseBillPeriod("  Nov   2025 ")
	if err != nil {
		t.Fatalf("Failed to parse period: %v", err)
	}

	expected := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseBillPeriod_Numeric(t *testing.T) {
	cases := []string{"11/2025", "11.2025", "2025-11", "15/11/2025"}

	for _, label := range cases {
		result, err := timeparser.ParseBillPeriod(label)
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", label, err)
		}

		expected := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
		if !result.Equal(expected) {
			t.Errorf("%q: expected %v, got %v", label, expected, result)
		}
	}
}

func TestParseBillPeriod_Invalid(t *testing.T) {
	for _, label := range []string{"Unknown", "", "   "} {
		if _, err := timeparser.ParseBillPeriod(label); err == nil {
			t.Errorf("Expected error for %q", label)
		}
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2025, 12, 29, 10, 30, 45, 0, time.FixedZone("CET", 3600))

	expected := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := timeparser.MonthStart(in); !got.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
