package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
)

// SaleRepository defines the interface for the sale ledger.
// Sales are never deleted; only refund fields are updated.
type SaleRepository interface {
	// Create stores the sale and its lines in one transaction
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// UpdateRefund persists status and refund fields only
	UpdateRefund(ctx context.Context, sale *entity.Sale) error
	// ListByRange returns the store's sales with lines, newest first.
	// A nil bound is open.
	ListByRange(ctx context.Context, from, to *time.Time) ([]entity.Sale, error)
}
