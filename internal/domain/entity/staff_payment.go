package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffPayment records money paid to a staff member (salary, bonus, advance)
type StaffPayment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	StaffID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"staff_id"`
	StaffName string         `gorm:"size:255" json:"staff_name"`
	Kind      string         `gorm:"size:20;not null" json:"kind"`   // salary, bonus, advance
	Period    string         `gorm:"size:7;index" json:"period"`     // YYYY-MM
	Method    string         `gorm:"size:20;not null" json:"method"` // cash, transfer
	Amount    int64          `gorm:"not null" json:"-"`              // Stored in cents
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	PaidAt    time.Time      `gorm:"not null" json:"paid_at"`
	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON converts the cent amount to a decimal for API responses
func (p StaffPayment) MarshalJSON() ([]byte, error) {
	type Alias StaffPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *StaffPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StaffPayment model
func (StaffPayment) TableName() string {
	return "staff_payments"
}
