package service

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontService_Menu(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "Coffee", "Espresso", "1.80")
	latte := env.seedItem(t, "Coffee", "Latte", "3.40")
	secret := env.seedItem(t, "Coffee", "Staff Brew", "0.50")
	croissant := env.seedItem(t, "Bakery", "Croissant", "2.10")
	_, err := env.catalog.CreateCategory(env.ctx, &CategoryInput{Name: "Seasonal"})
	require.NoError(t, err)

	_, err = env.catalog.SetVisibility(env.ctx, secret.ID, false)
	require.NoError(t, err)
	_, err = env.catalog.SetAvailability(env.ctx, croissant.ID, false)
	require.NoError(t, err)

	menu, err := env.storefront.Menu(env.ctx, env.store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Roastery", menu.StoreName)
	assert.Equal(t, "EUR", menu.Currency)
	require.Len(t, menu.Categories, 1)

	coffee := menu.Categories[0]
	assert.Equal(t, "coffee", coffee.Slug)
	names := make([]string, 0, len(coffee.Items))
	for _, item := range coffee.Items {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{"Espresso", "Latte"}, names)
	for _, item := range coffee.Items {
		if item.ID == latte.ID {
			assert.Equal(t, 3.4, item.Price)
			assert.Equal(t, "3.40 €", item.FormattedPrice)
		}
	}
}

func TestStorefrontService_UnknownOrClosedStore(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.storefront.Menu(env.ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound)

	closed := &entity.Store{Name: "Closed Roastery", Slug: "closed-roastery", Active: false}
	require.NoError(t, env.db.Create(closed).Error)
	_, err = env.storefront.Menu(env.ctx, closed.ID)
	assertAppError(t, err, http.StatusNotFound)
}
