package pos

import (
	"strings"

	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF",
	"MXN": "$",
	"KES": "KSh",
}

// CurrencySymbol returns the display symbol for an ISO currency code.
// Unknown codes are returned unchanged.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatPrice formats an amount the way the POS renders it: two decimals
// with the currency symbol before ("€2.50") or after ("2.50 €").
func FormatPrice(amount decimal.Decimal, display entity.DisplaySettings) string {
	sym := CurrencySymbol(display.Currency)
	value := amount.StringFixed(2)
	if sym == "" {
		return value
	}
	if display.CurrencyPosition == "before" {
		return sym + value
	}
	return value + " " + sym
}

// FormatCents formats a cent amount with FormatPrice
func FormatCents(cents int64, display entity.DisplaySettings) string {
	return FormatPrice(money.FromCents(cents), display)
}
