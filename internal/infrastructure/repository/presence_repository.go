package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/brewpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type presenceRepository struct {
	db *gorm.DB
}

// NewPresenceRepository creates a new presence log repository
func NewPresenceRepository(db *gorm.DB) domainRepo.PresenceRepository {
	return &presenceRepository{db: db}
}

func (r *presenceRepository) Create(ctx context.Context, entry *entity.PresenceEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *presenceRepository) ListByStaffDate(ctx context.Context, staffID uuid.UUID, date string) ([]entity.PresenceEntry, error) {
	var entries []entity.PresenceEntry
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND work_date = ?", staffID, date).
		Order("recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *presenceRepository) ListByStaffRange(ctx context.Context, staffID uuid.UUID, fromDate, toDate string) ([]entity.PresenceEntry, error) {
	var entries []entity.PresenceEntry
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND work_date >= ? AND work_date <= ?", staffID, fromDate, toDate).
		Order("work_date ASC, recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *presenceRepository) ListByDate(ctx context.Context, date string) ([]entity.PresenceEntry, error) {
	var entries []entity.PresenceEntry
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Where("work_date = ?", date).
		Order("recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *presenceRepository) LastByStaff(ctx context.Context, staffID uuid.UUID) (*entity.PresenceEntry, error) {
	var entry entity.PresenceEntry
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("recorded_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
