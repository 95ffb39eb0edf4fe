package service

import (
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddRemove(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.20")
	muffin := env.seedItem(t, "Bakery", "Muffin", "2.50")

	_, err := env.carts.AddItem(env.ctx, env.cashier, latte.ID)
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.ctx, env.cashier, muffin.ID)
	require.NoError(t, err)
	view, err := env.carts.AddItem(env.ctx, env.cashier, latte.ID)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Latte", view.Lines[0].Name)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "Coffee", view.Lines[0].Category)
	assert.Equal(t, 3, view.ItemCount)
	assert.True(t, view.ItemsTotal.Equal(dec("8.90")))
	assert.Equal(t, "8.90 €", view.FormattedTotal)

	view, err = env.carts.RemoveItem(env.ctx, env.cashier, latte.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	view, err = env.carts.RemoveItem(env.ctx, env.cashier, uuid.New())
	require.NoError(t, err)
	assert.True(t, view.ItemsTotal.Equal(dec("5.70")))

	other, err := env.carts.View(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Empty(t, other.Lines)

	env.carts.Clear(env.cashier)
	view, err = env.carts.View(env.ctx, env.cashier)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestCartService_RefusesUnsellableItems(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.20")

	_, err := env.catalog.SetVisibility(env.ctx, latte.ID, false)
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.ctx, env.cashier, latte.ID)
	assertAppError(t, err, http.StatusBadRequest)

	_, err = env.carts.AddItem(env.ctx, env.cashier, uuid.New())
	assertAppError(t, err, http.StatusNotFound)
}

func TestCartService_TaxPreview(t *testing.T) {
	env := newTestEnv(t)
	env.setTaxes(t, `{"default_tax_rate": 20, "tax_name": "VAT", "include_in_price": true, "rounding_mode": "half-up"}`)
	latte := env.seedItem(t, "Coffee", "Latte", "3.40")

	env.carts.AddItem(env.ctx, env.cashier, latte.ID)
	view, err := env.carts.AddItem(env.ctx, env.cashier, latte.ID)
	require.NoError(t, err)

	assert.True(t, view.Tax.Total.Equal(dec("6.80")))
	assert.True(t, view.Tax.TaxAmount.Equal(dec("1.13")))
	assert.True(t, view.Tax.Subtotal.Equal(dec("5.67")))
	assert.True(t, view.Tax.Included)

	env.setTaxes(t, `{"default_tax_rate": 10, "tax_name": "Sales tax", "include_in_price": false, "rounding_mode": "half-up"}`)
	view, err = env.carts.View(env.ctx, env.cashier)
	require.NoError(t, err)
	assert.True(t, view.Tax.Subtotal.Equal(dec("6.80")))
	assert.True(t, view.Tax.TaxAmount.Equal(dec("0.68")))
	assert.True(t, view.Total.Equal(dec("7.48")))
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.20")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.carts.AddItem(env.ctx, env.cashier, latte.ID)
		}()
	}
	wg.Wait()

	lines := env.carts.Lines(env.cashier)
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
}

func TestCartService_TakeAndRestore(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.20")
	muffin := env.seedItem(t, "Bakery", "Muffin", "2.50")

	assert.Nil(t, env.carts.Take(env.cashier))

	for _, id := range []uuid.UUID{latte.ID, latte.ID, muffin.ID} {
		_, err := env.carts.AddItem(env.ctx, env.cashier, id)
		require.NoError(t, err)
	}

	taken := env.carts.Take(env.cashier)
	require.Len(t, taken, 2)
	assert.Equal(t, 2, taken[0].Quantity)
	assert.Empty(t, env.carts.Lines(env.cashier))
	assert.Nil(t, env.carts.Take(env.cashier))

	_, err := env.carts.AddItem(env.ctx, env.cashier, muffin.ID)
	require.NoError(t, err)
	env.carts.Restore(env.cashier, taken)

	lines := env.carts.Lines(env.cashier)
	require.Len(t, lines, 2)
	assert.Equal(t, latte.ID, lines[0].Item.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, muffin.ID, lines[1].Item.ID)
	assert.Equal(t, 2, lines[1].Quantity)

	env.carts.Restore(env.admin, nil)
	assert.Empty(t, env.carts.Lines(env.admin))
}
