package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed requests to prevent duplicate checkouts and refunds
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key          string    `gorm:"column:idempotency_key;uniqueIndex:idx_idempotency_staff_key;size:255;not null"` // The idempotency key from client
	StaffID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_staff_key"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /api/v1/sales/checkout"
	RequestHash  string    `gorm:"size:64"`           // SHA256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a UUID before storing the key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired at the given time
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
