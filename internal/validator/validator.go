package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPayload marks scan payloads that must not be stored.
var ErrInvalidPayload = errors.New("invalid scan payload")

// ValidationResult holds validation outcome for a scan payload
type ValidationResult struct {
	IsValid bool
	// Fallback is set when the payload was unusable and a generic one was substituted.
	Fallback bool
	Reason   string
}

// FieldError is one problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError collects field level problems of a request body.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (v *ValidationError) add(field, code, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Code: code, Message: message})
}

// errOrNil keeps a typed nil *ValidationError out of error interfaces.
func (v *ValidationError) errOrNil() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Tariffs are the per-kWh unit prices of the four KEDS tariff buckets.
type Tariffs struct {
	Day       float64
	Night     float64
	PeakDay   float64
	PeakNight float64
}

// DefaultTariffs are the published KEDS residential prices in EUR/kWh.
var DefaultTariffs = Tariffs{
	Day:       0.0779,
	Night:     0.0334,
	PeakDay:   0.1445,
	PeakNight: 0.0681,
}

// Validator validates scan payloads and request bodies
type Validator struct {
	defaults Tariffs
}

// NewValidator creates a new validator that fills missing bill prices from defaults
func NewValidator(defaults Tariffs) *Validator {
	return &Validator{defaults: defaults}
}

func checkLength(verr *ValidationError, field string, value *string, max int) {
	if value != nil && len([]rune(*value)) > max {
		verr.add(field, "too_long", fmt.Sprintf("must be at most %d characters", max))
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
