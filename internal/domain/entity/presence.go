package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PresenceEntry is one clock action for one staff member. Entries are
// append-only; status and durations are derived by replaying a day.
type PresenceEntry struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	StaffID   uuid.UUID           `gorm:"type:uuid;not null;index:idx_presence_staff_date" json:"staff_id"`
	StaffName string              `gorm:"size:255" json:"staff_name"`
	Action    enum.PresenceAction `gorm:"size:20;not null" json:"action"`
	Timestamp time.Time           `gorm:"column:recorded_at;not null" json:"timestamp"`
	Date      string              `gorm:"column:work_date;size:10;not null;index:idx_presence_staff_date" json:"date"` // YYYY-MM-DD in store time
	CreatedAt time.Time           `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new entry
func (p *PresenceEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PresenceEntry model
func (PresenceEntry) TableName() string {
	return "presence_entries"
}
