package enum

import (
	"encoding/json"
	"fmt"
)

// RoundingMode controls how tax amounts are rounded to cents
type RoundingMode string

const (
	RoundingHalfUp   RoundingMode = "half-up"
	RoundingHalfEven RoundingMode = "half-even"
	RoundingUp       RoundingMode = "up"
	RoundingDown     RoundingMode = "down"
)

func (m RoundingMode) String() string {
	return string(m)
}

// IsValid reports whether m is a known rounding mode. The empty mode is
// accepted and treated as half-up.
func (m RoundingMode) IsValid() bool {
	switch m {
	case "", RoundingHalfUp, RoundingHalfEven, RoundingUp, RoundingDown:
		return true
	}
	return false
}

func (m *RoundingMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := RoundingMode(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown rounding mode %q", str)
	}
	*m = v
	return nil
}
