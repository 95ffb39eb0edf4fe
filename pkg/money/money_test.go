package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, "2.5", FromCents(250).String())
	assert.Equal(t, int64(113), ToCents(decimal.RequireFromString("1.1333")))
	assert.Equal(t, int64(568), ToCents(decimal.RequireFromString("5.675")))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.50", "2.5"},
		{"2,50", "2.5"},
		{"€1.80", "1.8"},
		{" 3 $", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		})
	}

	for _, bad := range []string{"", "abc", "-1", "1.2.3"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}
