package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
)

// StorefrontService serves the public menu of a store
type StorefrontService struct {
	storeRepo    repository.StoreRepository
	categoryRepo repository.CategoryRepository
	posConfig    *POSConfigService
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	storeRepo repository.StoreRepository,
	categoryRepo repository.CategoryRepository,
	posConfig *POSConfigService,
) *StorefrontService {
	return &StorefrontService{
		storeRepo:    storeRepo,
		categoryRepo: categoryRepo,
		posConfig:    posConfig,
	}
}

// StorefrontItem is a menu entry as shown to customers
type StorefrontItem struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	FormattedPrice string    `json:"formatted_price"`
}

// StorefrontCategory groups storefront items
type StorefrontCategory struct {
	Name  string           `json:"name"`
	Slug  string           `json:"slug"`
	Items []StorefrontItem `json:"items"`
}

// StorefrontMenu is the public menu of a store
type StorefrontMenu struct {
	StoreID    uuid.UUID            `json:"store_id"`
	StoreName  string               `json:"store_name"`
	Address    string               `json:"address,omitempty"`
	Phone      string               `json:"phone,omitempty"`
	Currency   string               `json:"currency"`
	Categories []StorefrontCategory `json:"categories"`
}

// Menu returns the available, POS-visible items of an active store. Empty
// categories are left out.
func (s *StorefrontService) Menu(ctx context.Context, storeID uuid.UUID) (*StorefrontMenu, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.Active {
		return nil, apperror.NewNotFoundError("Store")
	}

	settings, err := s.posConfig.Settings(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListWithItems(ctx, store.ID, true)
	if err != nil {
		return nil, err
	}

	menu := &StorefrontMenu{
		StoreID:    store.ID,
		StoreName:  store.Name,
		Address:    store.Address,
		Phone:      store.Phone,
		Currency:   settings.Display.Currency,
		Categories: make([]StorefrontCategory, 0, len(categories)),
	}
	for _, c := range categories {
		if len(c.Items) == 0 {
			continue
		}
		sc := StorefrontCategory{Name: c.Name, Slug: c.Slug, Items: make([]StorefrontItem, 0, len(c.Items))}
		for _, item := range c.Items {
			si := StorefrontItem{
				ID:             item.ID,
				Name:           item.Name,
				Price:          float64(item.Price) / 100,
				FormattedPrice: pos.FormatCents(item.Price, settings.Display),
			}
			if settings.Display.ShowDescriptions {
				si.Description = item.Description
			}
			sc.Items = append(sc.Items, si)
		}
		menu.Categories = append(menu.Categories, sc)
	}
	return menu, nil
}
