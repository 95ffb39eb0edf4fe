package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// StaffRepository defines the interface for staff data operations
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	GetByEmail(ctx context.Context, email string) (*entity.Staff, error)
	// ListActive returns every active staff member of the store in the context
	ListActive(ctx context.Context) ([]entity.Staff, error)
	List(ctx context.Context, params *StaffFilterParams) ([]entity.Staff, int64, error)
	Update(ctx context.Context, staff *entity.Staff) error
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// StaffFilterParams contains filtering parameters for staff queries
type StaffFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Role       enum.StaffRole
	ActiveOnly bool
}
