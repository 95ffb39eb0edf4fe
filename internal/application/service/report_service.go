package service

import (
	"context"
	"time"

	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
)

const (
	defaultTopItems = 10
	maxTopItems     = 100
)

// ReportService computes ledger aggregates for a store and date range
type ReportService struct {
	saleRepo repository.SaleRepository
	locator  Locator
}

// NewReportService creates a new report service
func NewReportService(saleRepo repository.SaleRepository, locator Locator) *ReportService {
	return &ReportService{
		saleRepo: saleRepo,
		locator:  locator,
	}
}

// ReportRange bounds a report. Nil bounds are open; To is exclusive.
type ReportRange struct {
	From *time.Time
	To   *time.Time
}

// Summary returns the netted totals for the range
func (s *ReportService) Summary(ctx context.Context, r ReportRange) (*pos.Summary, error) {
	sales, err := s.sales(ctx, r)
	if err != nil {
		return nil, err
	}
	summary := pos.Summarize(sales)
	return &summary, nil
}

// Daily returns one row per business day in the configured timezone
func (s *ReportService) Daily(ctx context.Context, r ReportRange) ([]pos.DaySales, error) {
	sales, err := s.sales(ctx, r)
	if err != nil {
		return nil, err
	}
	return pos.DailyBreakdown(sales, s.locator.Location(ctx)), nil
}

// TopItems returns the best selling items by quantity
func (s *ReportService) TopItems(ctx context.Context, r ReportRange, limit int) ([]pos.ItemSales, error) {
	if limit <= 0 {
		limit = defaultTopItems
	}
	if limit > maxTopItems {
		limit = maxTopItems
	}
	sales, err := s.sales(ctx, r)
	if err != nil {
		return nil, err
	}
	return pos.TopItems(sales, limit), nil
}

// ByStaff returns totals per staff member
func (s *ReportService) ByStaff(ctx context.Context, r ReportRange) ([]pos.StaffSales, error) {
	sales, err := s.sales(ctx, r)
	if err != nil {
		return nil, err
	}
	return pos.ByStaff(sales), nil
}

func (s *ReportService) sales(ctx context.Context, r ReportRange) ([]entity.Sale, error) {
	if _, err := storeFromContext(ctx); err != nil {
		return nil, err
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return nil, apperror.NewFieldError("to", "must not be before from")
	}
	return s.saleRepo.ListByRange(ctx, r.From, r.To)
}
