package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) domainRepo.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(staff).Error
}

// GetByID is not store scoped; authentication resolves staff before a store is known
func (r *staffRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &staff, err
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*entity.Staff, error) {
	var staff entity.Staff
	err := r.db.WithContext(ctx).First(&staff, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &staff, err
}

func (r *staffRepository) ListActive(ctx context.Context) ([]entity.Staff, error) {
	var staff []entity.Staff
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Where("active = ?", true).
		Order("name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepository) List(ctx context.Context, params *domainRepo.StaffFilterParams) ([]entity.Staff, int64, error) {
	var staff []entity.Staff
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Staff{}).Scopes(StoreScope(ctx))

	if params.Search != "" {
		pattern := likePattern(params.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}
	err := query.Order("name ASC").Find(&staff).Error

	return staff, total, err
}

func (r *staffRepository) Update(ctx context.Context, staff *entity.Staff) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(staff).Error
}

func (r *staffRepository) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Staff{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
