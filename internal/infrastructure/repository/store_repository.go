package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) domainRepo.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &store, err
}

func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).First(&store, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &store, err
}

func (r *storeRepository) List(ctx context.Context) ([]entity.Store, error) {
	var stores []entity.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepository) Update(ctx context.Context, store *entity.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}
