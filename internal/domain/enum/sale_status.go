package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SaleStatus is the lifecycle state of a sale in the ledger
type SaleStatus string

const (
	SaleStatusCompleted         SaleStatus = "completed"
	SaleStatusRefunded          SaleStatus = "refunded"
	SaleStatusPartiallyRefunded SaleStatus = "partially-refunded"
)

func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known sale status
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusRefunded, SaleStatusPartiallyRefunded:
		return true
	}
	return false
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := SaleStatus(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown sale status %q", str)
	}
	*s = v
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = SaleStatus(v)
	case []byte:
		*s = SaleStatus(string(v))
	case nil:
		*s = SaleStatusCompleted
	}
	return nil
}
