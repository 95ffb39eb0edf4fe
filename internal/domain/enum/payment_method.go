package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a sale was settled at the till
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := PaymentMethod(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*m = v
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(string(v))
	case nil:
		*m = PaymentMethodCash
	}
	return nil
}
