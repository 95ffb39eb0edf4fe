package repository

import (
	"context"

	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type staffPaymentRepository struct {
	db *gorm.DB
}

// NewStaffPaymentRepository creates a new staff payment repository
func NewStaffPaymentRepository(db *gorm.DB) domainRepo.StaffPaymentRepository {
	return &staffPaymentRepository{db: db}
}

func (r *staffPaymentRepository) Create(ctx context.Context, payment *entity.StaffPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *staffPaymentRepository) List(ctx context.Context, params *domainRepo.StaffPaymentFilterParams) ([]entity.StaffPayment, int64, error) {
	var payments []entity.StaffPayment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StaffPayment{}).Scopes(StoreScope(ctx))
	if params.StaffID != nil {
		query = query.Where("staff_id = ?", *params.StaffID)
	}
	if params.Period != "" {
		query = query.Where("period = ?", params.Period)
	}
	if params.Kind != "" {
		query = query.Where("kind = ?", params.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("paid_at DESC")
	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}
	err := query.Find(&payments).Error
	return payments, total, err
}
