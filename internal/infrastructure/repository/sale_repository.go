package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// Create inserts the sale; GORM saves the lines in the same transaction
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("Lines", orderedLines).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) UpdateRefund(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(StoreScope(ctx)).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"status":        sale.Status,
			"refund_amount": sale.RefundAmount,
			"refund_reason": sale.RefundReason,
			"refunded_at":   sale.RefundedAt,
			"updated_at":    time.Now(),
		}).Error
}

func (r *saleRepository) ListByRange(ctx context.Context, from, to *time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	query := r.db.WithContext(ctx).Scopes(StoreScope(ctx))
	if from != nil {
		query = query.Where("sold_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("sold_at < ?", *to)
	}
	err := query.
		Preload("Lines", orderedLines).
		Order("sold_at DESC").
		Find(&sales).Error
	return sales, err
}
