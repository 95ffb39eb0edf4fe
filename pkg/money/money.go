// Package money converts between the cent amounts stored in the database and
// the decimal amounts used for arithmetic and display.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a price string cannot be parsed
var ErrInvalidAmount = errors.New("money: invalid amount")

var hundred = decimal.NewFromInt(100)

// FromCents converts a cent amount to a decimal with two places
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents rounds a decimal half away from zero and returns it in cents
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// Parse reads user-entered prices such as "2.50", "2,50", "€2.50" or "3 $".
// Negative amounts are rejected.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		case r == ',':
			return '.'
		}
		return -1
	}, strings.TrimSpace(s))

	if cleaned == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
