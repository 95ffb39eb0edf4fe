package pos

import (
	"testing"

	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		position string
		want     string
	}{
		{"euro after", "2.5", "EUR", "after", "2.50 €"},
		{"dollar before", "3", "usd", "before", "$3.00"},
		{"unknown code", "1.239", "ABC", "after", "1.24 ABC"},
		{"default position", "0", "GBP", "", "0.00 £"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPrice(dec(tt.amount), entity.DisplaySettings{Currency: tt.currency, CurrencyPosition: tt.position})
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "€6.80", FormatCents(680, entity.DisplaySettings{Currency: "EUR", CurrencyPosition: "before"}))
}
