package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Scopes(StoreScope(ctx)).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Scopes(StoreScope(ctx)).
		First(&category, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(StoreScope(ctx)).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Scopes(StoreScope(ctx)).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListWithItems(ctx context.Context, storeID uuid.UUID, sellableOnly bool) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			if sellableOnly {
				db = db.Where("available = ? AND pos_visible = ?", true, true)
			}
			return db.Order("name ASC")
		}).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.CatalogItem{}).
		Scopes(StoreScope(ctx)).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

type catalogItemRepository struct {
	db *gorm.DB
}

// NewCatalogItemRepository creates a new catalog item repository
func NewCatalogItemRepository(db *gorm.DB) domainRepo.CatalogItemRepository {
	return &catalogItemRepository{db: db}
}

func (r *catalogItemRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *catalogItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := r.db.WithContext(ctx).Scopes(StoreScope(ctx)).
		Preload("Category").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *catalogItemRepository) Update(ctx context.Context, item *entity.CatalogItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *catalogItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(StoreScope(ctx)).Delete(&entity.CatalogItem{}, "id = ?", id).Error
}

func (r *catalogItemRepository) List(ctx context.Context, params *domainRepo.CatalogFilterParams) ([]entity.CatalogItem, int64, error) {
	var items []entity.CatalogItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CatalogItem{}).Scopes(StoreScope(ctx))

	if params.Search != "" {
		pattern := likePattern(params.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Available != nil {
		query = query.Where("available = ?", *params.Available)
	}
	if params.POSVisible != nil {
		query = query.Where("pos_visible = ?", *params.POSVisible)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}

func (r *catalogItemRepository) ListAll(ctx context.Context) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("Category").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	sortByCategory(items)
	return items, nil
}

func (r *catalogItemRepository) ImportBatch(ctx context.Context, categories []entity.Category, items []entity.CatalogItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			if err := tx.Omit(clause.Associations).Create(&categories[i]).Error; err != nil {
				return err
			}
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).CreateInBatches(items, 100).Error
	})
}

// sortByCategory orders items by category position, category name, then item name
func sortByCategory(items []entity.CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Category != nil && b.Category != nil && a.Category.ID != b.Category.ID {
			if a.Category.Position != b.Category.Position {
				return a.Category.Position < b.Category.Position
			}
			return a.Category.Name < b.Category.Name
		}
		return a.Name < b.Name
	})
}
