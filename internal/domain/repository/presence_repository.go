package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
)

// PresenceRepository defines the interface for the append-only presence log
type PresenceRepository interface {
	Create(ctx context.Context, entry *entity.PresenceEntry) error
	// ListByStaffDate returns one staff member's entries for a date in timestamp order
	ListByStaffDate(ctx context.Context, staffID uuid.UUID, date string) ([]entity.PresenceEntry, error)
	// ListByStaffRange returns entries for dates in [fromDate, toDate]
	ListByStaffRange(ctx context.Context, staffID uuid.UUID, fromDate, toDate string) ([]entity.PresenceEntry, error)
	// ListByDate returns every entry of the store in the context for a date
	ListByDate(ctx context.Context, date string) ([]entity.PresenceEntry, error)
	// LastByStaff returns the staff member's most recent entry, nil when none exists
	LastByStaff(ctx context.Context, staffID uuid.UUID) (*entity.PresenceEntry, error)
}
