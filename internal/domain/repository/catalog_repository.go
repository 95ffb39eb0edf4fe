package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// CategoryRepository defines the interface for category data operations.
// All methods are scoped to the store carried by the context.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	// GetByName matches case-insensitively
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Category, error)
	// ListWithItems preloads items ordered by name; sellableOnly keeps available, POS-visible items
	ListWithItems(ctx context.Context, storeID uuid.UUID, sellableOnly bool) ([]entity.Category, error)
	CountItems(ctx context.Context, id uuid.UUID) (int64, error)
}

// CatalogItemRepository defines the interface for catalog item data operations.
// All methods are scoped to the store carried by the context.
type CatalogItemRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CatalogFilterParams) ([]entity.CatalogItem, int64, error)
	// ListAll returns every item with its category, ordered by category position then name
	ListAll(ctx context.Context) ([]entity.CatalogItem, error)
	// ImportBatch creates missing categories and items in a single transaction
	ImportBatch(ctx context.Context, categories []entity.Category, items []entity.CatalogItem) error
}

// CatalogFilterParams contains filtering parameters for catalog item queries
type CatalogFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	Available  *bool
	POSVisible *bool
}
