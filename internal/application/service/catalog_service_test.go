package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"github.com/sangkips/brewpos-api/pkg/menutable"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return events.Event{}
	}
}

func drain(ch <-chan events.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestCatalogService_ItemLifecycle(t *testing.T) {
	env := newTestEnv(t)
	espresso := env.seedItem(t, "Coffee", "Espresso", "1.80")

	assert.Equal(t, int64(180), espresso.Price)
	assert.True(t, espresso.Available)
	assert.True(t, espresso.POSVisible)
	require.NotNil(t, espresso.Category)
	assert.Equal(t, "Coffee", espresso.Category.Name)

	off := false
	updated, err := env.catalog.UpdateItem(env.ctx, espresso.ID, &ItemInput{
		CategoryID: espresso.CategoryID,
		Name:       "Double Espresso",
		Price:      dec("2.40"),
		Available:  &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "Double Espresso", updated.Name)
	assert.Equal(t, int64(240), updated.Price)
	assert.False(t, updated.Available)
	assert.True(t, updated.POSVisible)

	available := false
	list, err := env.catalog.ListItems(env.ctx, &repository.CatalogFilterParams{
		Pagination: pagination.DefaultPagination(),
		Available:  &available,
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	require.NoError(t, env.catalog.DeleteItem(env.ctx, espresso.ID))
	_, err = env.catalog.GetItem(env.ctx, espresso.ID)
	assertAppError(t, err, http.StatusNotFound)
}

func TestCatalogService_Validation(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, "Coffee", "Latte", "3.20")

	_, err := env.catalog.CreateItem(env.ctx, &ItemInput{CategoryID: item.CategoryID, Price: dec("-1")})
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 2)

	_, err = env.catalog.CreateCategory(env.ctx, &CategoryInput{Name: "coffee"})
	assertAppError(t, err, http.StatusConflict)

	err = env.catalog.DeleteCategory(env.ctx, item.CategoryID)
	assertAppError(t, err, http.StatusConflict)
}

func TestCatalogService_TogglePublishesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.20")
	env.seedItem(t, "Coffee", "Mocha", "3.60")

	ch, cancel := env.bus.Subscribe(events.TopicCatalogChanged)
	defer cancel()

	_, err := env.catalog.SetAvailability(env.ctx, latte.ID, false)
	require.NoError(t, err)

	ev := receive(t, ch)
	assert.Equal(t, events.KindItemChanged, ev.Kind)
	assert.Equal(t, env.store.ID, ev.StoreID)

	var snap MenuSnapshot
	require.NoError(t, json.Unmarshal(ev.Snapshot, &snap))
	require.Len(t, snap.Categories, 1)
	require.Len(t, snap.Categories[0].Items, 1)
	assert.Equal(t, "Mocha", snap.Categories[0].Items[0].Name)
}

const menuTable = `
| Name | Category | Price | Description |
|------|----------|-------|-------------|
| Flat White | Coffee | 3.00 | Double ristretto |
| Chai Latte | Tea | 3.40 | |
| Croissant | Bakery | 2,20 | Butter |
| flat white | Coffee | 3.10 | again |
`

func TestCatalogService_ImportMenuRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.ImportMenu(env.ctx, menuTable, false)
	appErr := assertAppError(t, err, http.StatusConflict)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "line 7", appErr.Errors[0].Field)

	items, err := env.catalog.ListItems(env.ctx, &repository.CatalogFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Empty(t, items.Items)
	categories, err := env.catalog.ListCategories(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCatalogService_ImportMenuKeepingDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "Tea", "Chai Latte", "3.40")

	ch, cancel := env.bus.Subscribe(events.TopicCatalogChanged)
	defer cancel()

	res, err := env.catalog.ImportMenu(env.ctx, menuTable, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.ItemsCreated)
	assert.Equal(t, 2, res.CategoriesCreated)
	assert.Len(t, res.Duplicates, 2)

	ev := receive(t, ch)
	assert.Equal(t, events.KindMenuSynced, ev.Kind)

	exported, err := env.catalog.ExportMenu(env.ctx)
	require.NoError(t, err)
	parsed, err := menutable.Parse(exported)
	require.NoError(t, err)
	assert.Len(t, parsed.Items, 3)
	assert.Len(t, parsed.DuplicateLines, 2)
	assert.True(t, strings.Contains(exported, "| Croissant | Bakery | 2.20 |"))
}

func TestCatalogService_ImportMenuInvalidRows(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.ImportMenu(env.ctx, "| Name | Price |\n|---|---|\n| Scone | abc |\n", false)
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	require.Len(t, appErr.Errors, 1)
	assert.True(t, strings.HasPrefix(appErr.Errors[0].Field, "line 3"))

	_, err = env.catalog.ImportMenu(env.ctx, "no table here", false)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestCatalogService_SyncToPOS(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "Coffee", "Latte", "3.20")

	ch, cancel := env.bus.Subscribe(events.TopicCatalogChanged)
	defer cancel()
	drain(ch)

	snap, err := env.catalog.SyncToPOS(env.ctx)
	require.NoError(t, err)
	require.Len(t, snap.Categories, 1)

	ev := receive(t, ch)
	assert.Equal(t, events.KindMenuSynced, ev.Kind)
}
