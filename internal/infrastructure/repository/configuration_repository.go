package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type posConfigRepository struct {
	db *gorm.DB
}

// NewPOSConfigRepository creates a new POS configuration repository
func NewPOSConfigRepository(db *gorm.DB) domainRepo.POSConfigRepository {
	return &posConfigRepository{db: db}
}

func (r *posConfigRepository) GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entity.POSConfiguration, error) {
	var cfg entity.POSConfiguration
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// Save creates the row on first write and replaces the whole blob afterwards
func (r *posConfigRepository) Save(ctx context.Context, cfg *entity.POSConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

type globalConfigRepository struct {
	db *gorm.DB
}

// NewGlobalConfigRepository creates a new global configuration repository
func NewGlobalConfigRepository(db *gorm.DB) domainRepo.GlobalConfigRepository {
	return &globalConfigRepository{db: db}
}

func (r *globalConfigRepository) Get(ctx context.Context) (*entity.GlobalConfiguration, error) {
	var cfg entity.GlobalConfiguration
	err := r.db.WithContext(ctx).Where("config_key = ?", entity.GlobalConfigurationKey).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

func (r *globalConfigRepository) Save(ctx context.Context, cfg *entity.GlobalConfiguration) error {
	if cfg.Key == "" {
		cfg.Key = entity.GlobalConfigurationKey
	}
	return r.db.WithContext(ctx).Save(cfg).Error
}
