package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store represents one coffee shop. Catalog, sales, presence and
// configuration data all belong to a store.
type Store struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Address   string         `gorm:"size:255" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	TaxID     string         `gorm:"size:50" json:"tax_id,omitempty"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}
