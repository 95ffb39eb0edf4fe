package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
)

// POSConfigRepository defines the interface for per-store POS configuration
type POSConfigRepository interface {
	GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entity.POSConfiguration, error)
	// Save inserts or replaces the store's configuration
	Save(ctx context.Context, cfg *entity.POSConfiguration) error
}

// GlobalConfigRepository defines the interface for the singleton global configuration
type GlobalConfigRepository interface {
	Get(ctx context.Context) (*entity.GlobalConfiguration, error)
	Save(ctx context.Context, cfg *entity.GlobalConfiguration) error
}
