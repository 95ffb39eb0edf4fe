package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest adds one unit of an item to the cart
type AddCartItemRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// CheckoutRequest represents a checkout request
type CheckoutRequest struct {
	PaymentMethod string   `json:"payment_method" binding:"required"`
	Notes         string   `json:"notes" binding:"max=500"`
	Tags          []string `json:"tags" binding:"max=20"`
}

// RefundRequest represents a refund request
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"max=255"`
}

// SaleFilterRequest represents ledger filter parameters. From and To are
// dates (YYYY-MM-DD, To inclusive) or RFC 3339 instants.
type SaleFilterRequest struct {
	From          string `form:"from"`
	To            string `form:"to"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	StaffID       string `form:"staff_id"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// ReportRequest represents report range parameters
type ReportRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit"`
}
