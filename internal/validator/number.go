package validator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/septivank/energy-insights/internal/measurement"
)

// Number is a numeric field of an AI payload. The model sometimes answers
// with a JSON number and sometimes with a measurement string such as "€12.40";
// both are accepted. Null, blank and sentinel strings leave it unset.
type Number struct {
	Value float64
	Set   bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid numeric string: %w", err)
		}
		if !measurement.Present(&s) {
			return nil
		}
		*n = Number{Value: measurement.Extract(s), Set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid numeric value: %w", err)
	}
	*n = Number{Value: v, Set: true}
	return nil
}

// Or returns the value, or def when unset.
func (n Number) Or(def float64) float64 {
	if !n.Set {
		return def
	}
	return n.Value
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
