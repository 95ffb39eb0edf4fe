package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/metrics"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService handles checkout, the ledger and refunds
type SaleService struct {
	saleRepo  repository.SaleRepository
	carts     *CartService
	posConfig *POSConfigService
	metrics   *metrics.Metrics
	clock     clock.Clock
	log       *zap.Logger

	// refundMu serialises read-modify-write of refund balances
	refundMu sync.Mutex
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	carts *CartService,
	posConfig *POSConfigService,
	m *metrics.Metrics,
	clk clock.Clock,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:  saleRepo,
		carts:     carts,
		posConfig: posConfig,
		metrics:   m,
		clock:     clk,
		log:       loggerOrNop(log),
	}
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	PaymentMethod enum.PaymentMethod
	Notes         string
	Tags          []string
}

// Checkout turns the actor's cart into a completed sale and clears the cart
func (s *SaleService) Checkout(ctx context.Context, actor Actor, input *CheckoutInput) (*entity.Sale, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewFieldError("payment_method", "must be cash or card")
	}

	lines := s.carts.Take(actor)
	if len(lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	sale, err := s.record(ctx, actor, lines, input)
	if err != nil {
		s.carts.Restore(actor, lines)
		return nil, err
	}

	s.metrics.SaleRecorded(string(sale.PaymentMethod), sale.Total)
	s.log.Info("sale completed",
		zap.String("store_id", actor.StoreID.String()),
		zap.String("order_no", sale.OrderNo),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.Int64("total_cents", sale.Total),
	)
	return sale, nil
}

// record prices the taken lines and writes the sale
func (s *SaleService) record(ctx context.Context, actor Actor, lines []pos.CartLine, input *CheckoutInput) (*entity.Sale, error) {
	settings, err := s.posConfig.Settings(ctx, actor.StoreID)
	if err != nil {
		return nil, err
	}
	if input.PaymentMethod == enum.PaymentMethodCard && !settings.Display.ShowCardPayment {
		return nil, apperror.NewBadRequestError("Card payments are disabled for this store")
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	tax, err := computeTax(total, settings.Taxes)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sale, err := pos.NewSale(lines, pos.SaleInput{
		StoreID:       actor.StoreID,
		StaffID:       actor.StaffID,
		StaffName:     actor.Name,
		OrderNo:       utils.GenerateOrderNo(now),
		PaymentMethod: input.PaymentMethod,
		Tax:           tax,
		TaxName:       settings.Taxes.TaxName,
		Tags:          cleanTags(input.Tags),
		Notes:         strings.TrimSpace(input.Notes),
		At:            now,
	})
	if err != nil {
		return nil, translatePOSError(err)
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// SaleListInput selects a page of the ledger
type SaleListInput struct {
	From       *time.Time
	To         *time.Time
	Filter     pos.SaleFilter
	Pagination *pagination.PaginationParams
}

// ListSales returns the store's sales in the range that match the filter, newest first
func (s *SaleService) ListSales(ctx context.Context, input *SaleListInput) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, err := s.filtered(ctx, input)
	if err != nil {
		return nil, err
	}
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	return pagination.Slice(sales, input.Pagination), nil
}

func (s *SaleService) filtered(ctx context.Context, input *SaleListInput) ([]entity.Sale, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, apperror.NewFieldError("to", "must not be before from")
	}
	sales, err := s.saleRepo.ListByRange(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	return pos.FilterSales(sales, input.Filter), nil
}

// GetSale retrieves a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// RefundInput represents the refund input
type RefundInput struct {
	Amount decimal.Decimal
	Reason string
}

// Refund returns part or all of a sale's total. Refunds stack until the
// whole total has been returned.
func (s *SaleService) Refund(ctx context.Context, actor Actor, id uuid.UUID, input *RefundInput) (*entity.Sale, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	s.refundMu.Lock()
	defer s.refundMu.Unlock()

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pos.ApplyRefund(sale, input.Amount, reason, s.clock.Now()); err != nil {
		return nil, translatePOSError(err)
	}
	if err := s.saleRepo.UpdateRefund(ctx, sale); err != nil {
		return nil, err
	}

	refunded := money.ToCents(input.Amount)
	s.metrics.RefundRecorded(refunded)
	s.log.Info("sale refunded",
		zap.String("store_id", sale.StoreID.String()),
		zap.String("order_no", sale.OrderNo),
		zap.Int64("amount_cents", refunded),
		zap.Int64("refunded_total_cents", sale.RefundAmount),
		zap.String("status", string(sale.Status)),
		zap.String("by", actor.StaffID.String()),
		zap.String("reason", reason),
	)
	return sale, nil
}

var saleCSVHeader = []string{
	"order_no", "sold_at", "staff", "payment_method", "status",
	"subtotal", "tax", "total", "refunded", "items",
}

// ExportCSV writes every sale matching the input as CSV. Pagination is ignored.
func (s *SaleService) ExportCSV(ctx context.Context, input *SaleListInput, w io.Writer) error {
	sales, err := s.filtered(ctx, input)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(saleCSVHeader); err != nil {
		return err
	}
	for _, sale := range sales {
		items := make([]string, 0, len(sale.Lines))
		for _, l := range sale.Lines {
			items = append(items, strconv.Itoa(l.Quantity)+"x "+l.Name)
		}
		record := []string{
			sale.OrderNo,
			sale.SoldAt.UTC().Format(time.RFC3339),
			sale.StaffName,
			string(sale.PaymentMethod),
			string(sale.Status),
			money.FromCents(sale.Subtotal).StringFixed(2),
			money.FromCents(sale.TaxAmount).StringFixed(2),
			money.FromCents(sale.Total).StringFixed(2),
			money.FromCents(sale.RefundAmount).StringFixed(2),
			strings.Join(items, "; "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
