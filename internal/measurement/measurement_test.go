package measurement_test

import (
	"testing"

	"github.com/septivank/energy-insights/internal/measurement"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"bare decimal", "245.5", 245.5},
		{"currency prefixed", "$13.50", 13.5},
		{"euro prefixed", "€7", 7},
		{"range", "12-20", 16},
		{"range with spaces and units", "0.24 - 0.40 kWh", 0.32},
		{"currency range", "$13-22", 17.5},
		{"unit suffix", "100W", 100},
		{"not available", "N/A", 0},
		{"unable to determine", "Unable to determine", 0},
		{"empty", "", 0},
		{"multiple hyphens reads the prefix", "1-2-3", 1},
		{"repeated dots reads the prefix", "13.5.2", 13.5},
		{"leading minus is a half range", "-5", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, measurement.Extract(tt.input), 1e-9)
		})
	}
}

func TestExtract_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, measurement.Extract("-5-3"))
}

func TestPresent(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.False(t, measurement.Present(nil))
	assert.False(t, measurement.Present(str("")))
	assert.False(t, measurement.Present(str("  ")))
	assert.False(t, measurement.Present(str("n/a")))
	assert.False(t, measurement.Present(str("unable to determine")))
	assert.True(t, measurement.Present(str("$10")))
	assert.True(t, measurement.Present(str("0")))
}

func TestValue(t *testing.T) {
	v := "$100-140"
	got, ok := measurement.Value(&v)
	assert.True(t, ok)
	assert.Equal(t, 120.0, got)

	_, ok = measurement.Value(nil)
	assert.False(t, ok)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.07, measurement.Round2(1.068))
	assert.Equal(t, 80.0, measurement.Round1(79.96))
	assert.Equal(t, 33.3, measurement.Round1(100.0/3))
}

func TestDisplay(t *testing.T) {
	v := "30-50W"
	assert.Equal(t, "30-50W", measurement.Display(&v))
	assert.Equal(t, measurement.NotAvailable, measurement.Display(nil))
}
