package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
)

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)
	List(ctx context.Context) ([]entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
}
