package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sale is a completed transaction in the ledger. Lines are a snapshot of the
// cart at checkout; only the status and refund fields change afterwards.
type Sale struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	StoreID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"store_id"`
	OrderNo       string                      `gorm:"size:64;uniqueIndex;not null" json:"order_no"`
	StaffID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"staff_id"`
	StaffName     string                      `gorm:"size:255" json:"staff_name"`
	PaymentMethod enum.PaymentMethod          `gorm:"size:20;not null" json:"payment_method"`
	Status        enum.SaleStatus             `gorm:"size:30;not null;index" json:"status"`
	Subtotal      int64                       `gorm:"not null" json:"-"` // Stored in cents
	TaxAmount     int64                       `gorm:"not null" json:"-"` // Stored in cents
	Total         int64                       `gorm:"not null" json:"-"` // Stored in cents
	TaxRate       string                      `gorm:"size:16" json:"tax_rate"`
	TaxName       string                      `gorm:"size:50" json:"tax_name"`
	TaxIncluded   bool                        `json:"tax_included"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Notes         *string                     `gorm:"type:text" json:"notes,omitempty"`
	RefundAmount  int64                       `gorm:"default:0" json:"-"` // Cumulative, in cents
	RefundReason  *string                     `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt    *time.Time                  `json:"refunded_at,omitempty"`
	SoldAt        time.Time                   `gorm:"not null;index" json:"sold_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines"`
}

// MarshalJSON converts cents to decimals for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal     float64 `json:"subtotal"`
		TaxAmount    float64 `json:"tax_amount"`
		Total        float64 `json:"total"`
		RefundAmount float64 `json:"refund_amount"`
	}{
		Alias:        Alias(s),
		Subtotal:     float64(s.Subtotal) / 100,
		TaxAmount:    float64(s.TaxAmount) / 100,
		Total:        float64(s.Total) / 100,
		RefundAmount: float64(s.RefundAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// RefundableBalance returns what may still be refunded, in cents
func (s *Sale) RefundableBalance() int64 {
	return s.Total - s.RefundAmount
}

// SaleLine is one snapshotted cart line. Name, price and category are copied
// so later catalog edits do not rewrite history.
type SaleLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Category  string    `gorm:"size:255" json:"category"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	Quantity  int       `gorm:"not null" json:"quantity"`
	LineTotal int64     `gorm:"not null" json:"-"` // Stored in cents
	Position  int       `gorm:"column:sort_order;default:0" json:"-"`
}

// MarshalJSON converts cents to decimals for API responses
func (l SaleLine) MarshalJSON() ([]byte, error) {
	type Alias SaleLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		LineTotal: float64(l.LineTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}
