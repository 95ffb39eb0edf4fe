package pos

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffeeItems() (espresso, croissant CartItem) {
	espresso = CartItem{ID: uuid.New(), Name: "Espresso", Category: "Coffee", Price: dec("2.50")}
	croissant = CartItem{ID: uuid.New(), Name: "Croissant", Category: "Bakery", Price: dec("1.80")}
	return espresso, croissant
}

func TestCart_AddRemoveClear(t *testing.T) {
	espresso, croissant := coffeeItems()
	c := NewCart()
	assert.True(t, c.IsEmpty())

	c.Add(espresso)
	c.Add(croissant)
	c.Add(espresso)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Espresso", lines[0].Item.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Croissant", lines[1].Item.Name)
	assert.Equal(t, "6.80", c.Total().StringFixed(2))
	assert.Equal(t, 3, c.ItemCount())

	assert.True(t, c.Remove(espresso.ID))
	assert.Equal(t, 1, c.Quantity(espresso.ID))
	assert.True(t, c.Remove(espresso.ID))
	assert.Equal(t, 0, c.Quantity(espresso.ID))
	assert.False(t, c.Remove(espresso.ID), "removing an absent item is a no-op")
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "1.80", c.Total().StringFixed(2))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_RemoveKeepsOrderOfRemainingLines(t *testing.T) {
	a := CartItem{ID: uuid.New(), Name: "A", Price: dec("1")}
	b := CartItem{ID: uuid.New(), Name: "B", Price: dec("2")}
	d := CartItem{ID: uuid.New(), Name: "C", Price: dec("3")}
	c := NewCart()
	c.Add(a)
	c.Add(b)
	c.Add(d)

	c.Remove(a.ID)
	c.Add(d)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "B", lines[0].Item.Name)
	assert.Equal(t, "C", lines[1].Item.Name)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestCart_TotalMatchesIndependentLedger(t *testing.T) {
	items := []CartItem{
		{ID: uuid.New(), Name: "Espresso", Price: dec("2.50")},
		{ID: uuid.New(), Name: "Latte", Price: dec("3.10")},
		{ID: uuid.New(), Name: "Muffin", Price: dec("0.10")},
		{ID: uuid.New(), Name: "Tea", Price: dec("0.20")},
	}
	rng := rand.New(rand.NewSource(42))
	c := NewCart()
	expected := decimal.Zero

	for i := 0; i < 2000; i++ {
		item := items[rng.Intn(len(items))]
		switch op := rng.Intn(10); {
		case op < 6:
			c.Add(item)
			expected = expected.Add(item.Price)
		case op < 9:
			if c.Remove(item.ID) {
				expected = expected.Sub(item.Price)
			}
		default:
			c.Clear()
			expected = decimal.Zero
		}

		lineSum := decimal.Zero
		for _, l := range c.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			lineSum = lineSum.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, c.Total().Equal(lineSum), "step %d", i)
		require.True(t, c.Total().Equal(expected), "step %d", i)
	}
}

func TestCart_CheckoutScenario(t *testing.T) {
	espresso, croissant := coffeeItems()
	c := NewCart()
	c.Add(espresso)
	c.Add(espresso)
	c.Add(croissant)

	res, err := ComputeTax(c.Total(), dec("20"), true)
	require.NoError(t, err)
	r := res.Rounded("")
	assert.Equal(t, "1.13", r.TaxAmount.StringFixed(2))
	assert.Equal(t, "5.67", r.Subtotal.StringFixed(2))
	assert.Equal(t, "6.80", r.Total.StringFixed(2))
}
