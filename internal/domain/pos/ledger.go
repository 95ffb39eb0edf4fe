package pos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("pos: cart is empty")
	ErrInvalidRefundAmount  = errors.New("pos: refund amount must be positive")
	ErrRefundPrecision      = errors.New("pos: refund amount has more than two decimals")
	ErrRefundExceedsBalance = errors.New("pos: refund exceeds refundable balance")
)

// SaleInput carries everything recorded at checkout
type SaleInput struct {
	StoreID       uuid.UUID
	StaffID       uuid.UUID
	StaffName     string
	OrderNo       string
	PaymentMethod enum.PaymentMethod
	Tax           TaxResult // already rounded
	TaxName       string
	Tags          []string
	Notes         string
	At            time.Time
}

// NewSale snapshots cart lines into a completed sale. Names, prices and
// categories are copied so later catalog edits leave the ledger untouched.
func NewSale(lines []CartLine, in SaleInput) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	sale := &entity.Sale{
		ID:            uuid.New(),
		StoreID:       in.StoreID,
		OrderNo:       in.OrderNo,
		StaffID:       in.StaffID,
		StaffName:     in.StaffName,
		PaymentMethod: in.PaymentMethod,
		Status:        enum.SaleStatusCompleted,
		Subtotal:      money.ToCents(in.Tax.Subtotal),
		TaxAmount:     money.ToCents(in.Tax.TaxAmount),
		Total:         money.ToCents(in.Tax.Total),
		TaxRate:       in.Tax.Rate.String(),
		TaxName:       in.TaxName,
		TaxIncluded:   in.Tax.Included,
		Tags:          append([]string{}, in.Tags...),
		SoldAt:        in.At,
		Lines:         make([]entity.SaleLine, 0, len(lines)),
	}
	if in.Notes != "" {
		notes := in.Notes
		sale.Notes = &notes
	}

	for i, l := range lines {
		sale.Lines = append(sale.Lines, entity.SaleLine{
			SaleID:    sale.ID,
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Category:  l.Item.Category,
			UnitPrice: money.ToCents(l.Item.Price),
			Quantity:  l.Quantity,
			LineTotal: money.ToCents(l.LineTotal()),
			Position:  i,
		})
	}
	return sale, nil
}

// SaleFilter selects sales from the ledger. Zero-valued criteria match
// everything. Search is a case-insensitive substring over staff id, staff
// name, order number and item names.
type SaleFilter struct {
	Status        enum.SaleStatus
	PaymentMethod enum.PaymentMethod
	StaffID       *uuid.UUID
	Search        string
}

// FilterSales returns the sales matching every given criterion, in input order
func FilterSales(sales []entity.Sale, f SaleFilter) []entity.Sale {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.StaffID != nil && s.StaffID != *f.StaffID {
			continue
		}
		if needle != "" && !matchesSearch(s, needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesSearch(s entity.Sale, needle string) bool {
	if strings.Contains(strings.ToLower(s.StaffID.String()), needle) ||
		strings.Contains(strings.ToLower(s.StaffName), needle) ||
		strings.Contains(strings.ToLower(s.OrderNo), needle) {
		return true
	}
	for _, l := range s.Lines {
		if strings.Contains(strings.ToLower(l.Name), needle) {
			return true
		}
	}
	return false
}

// ApplyRefund records a refund on the sale. Partial refunds stack: the
// cumulative refunded amount never exceeds the sale total. The status
// becomes refunded once the whole total has been returned. Lines and the
// sale timestamp are left alone. Amounts finer than a cent are rejected
// rather than rounded.
func ApplyRefund(sale *entity.Sale, amount decimal.Decimal, reason string, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidRefundAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrRefundPrecision
	}
	cents := money.ToCents(amount)
	if cents > sale.RefundableBalance() {
		return fmt.Errorf("%w: %s remaining", ErrRefundExceedsBalance,
			money.FromCents(sale.RefundableBalance()).StringFixed(2))
	}

	sale.RefundAmount += cents
	sale.RefundReason = &reason
	refundedAt := at
	sale.RefundedAt = &refundedAt

	if sale.RefundAmount == sale.Total {
		sale.Status = enum.SaleStatusRefunded
	} else {
		sale.Status = enum.SaleStatusPartiallyRefunded
	}
	return nil
}
