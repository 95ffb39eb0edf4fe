package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// StaffPaymentRepository defines the interface for personnel payment records
type StaffPaymentRepository interface {
	Create(ctx context.Context, payment *entity.StaffPayment) error
	List(ctx context.Context, params *StaffPaymentFilterParams) ([]entity.StaffPayment, int64, error)
}

// StaffPaymentFilterParams contains filtering parameters for payment queries.
// A nil Pagination returns every matching row.
type StaffPaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	StaffID    *uuid.UUID
	Period     string
	Kind       string
}
