package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Payment kinds and methods
const (
	PaymentKindSalary  = "salary"
	PaymentKindBonus   = "bonus"
	PaymentKindAdvance = "advance"

	PayoutCash     = "cash"
	PayoutTransfer = "transfer"
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

var periodPattern = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)

// PayrollService records personnel payments
type PayrollService struct {
	paymentRepo repository.StaffPaymentRepository
	staffRepo   repository.StaffRepository
	clock       clock.Clock
	log         *zap.Logger
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	paymentRepo repository.StaffPaymentRepository,
	staffRepo repository.StaffRepository,
	clk clock.Clock,
	log *zap.Logger,
) *PayrollService {
	return &PayrollService{
		paymentRepo: paymentRepo,
		staffRepo:   staffRepo,
		clock:       clk,
		log:         loggerOrNop(log),
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	StaffID uuid.UUID
	Kind    string
	Period  string
	Method  string
	Amount  decimal.Decimal
	Notes   string
	PaidAt  *time.Time
}

// RecordPayment stores a payment to a staff member of the actor's store
func (s *PayrollService) RecordPayment(ctx context.Context, actor Actor, input *RecordPaymentInput) (*entity.StaffPayment, error) {
	var fieldErrors []apperror.FieldError
	switch input.Kind {
	case PaymentKindSalary, PaymentKindBonus, PaymentKindAdvance:
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "kind", Message: "must be salary, bonus or advance"})
	}
	switch input.Method {
	case PayoutCash, PayoutTransfer:
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "method", Message: "must be cash or transfer"})
	}
	if !periodPattern.MatchString(input.Period) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "period", Message: "must be YYYY-MM"})
	}
	if !input.Amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	staff, err := s.staffRepo.GetByID(ctx, input.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil || staff.StoreID != actor.StoreID {
		return nil, apperror.NewNotFoundError("Staff")
	}

	paidAt := s.clock.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	payment := &entity.StaffPayment{
		StoreID:   actor.StoreID,
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Kind:      input.Kind,
		Period:    input.Period,
		Method:    input.Method,
		Amount:    money.ToCents(input.Amount),
		PaidAt:    paidAt,
		CreatedBy: actor.StaffID,
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		payment.Notes = &notes
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	s.log.Info("staff payment recorded",
		zap.String("staff_id", staff.ID.String()),
		zap.String("kind", payment.Kind),
		zap.String("period", payment.Period),
		zap.Int64("amount_cents", payment.Amount),
	)
	return payment, nil
}

// ListPayments lists payments with filtering
func (s *PayrollService) ListPayments(ctx context.Context, params *repository.StaffPaymentFilterParams) (*pagination.PaginatedResult[entity.StaffPayment], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

var paymentColumns = []string{"paid_at", "staff", "kind", "period", "method", "amount", "notes"}

// ExportPayments writes every matching payment in the given format
func (s *PayrollService) ExportPayments(ctx context.Context, params *repository.StaffPaymentFilterParams, format string, w io.Writer) error {
	if format != ExportCSV && format != ExportXLSX {
		return apperror.NewFieldError("format", "must be csv or xlsx")
	}

	params.Pagination = nil
	payments, _, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return err
	}

	if format == ExportXLSX {
		return writePaymentsXLSX(payments, w)
	}
	return writePaymentsCSV(payments, w)
}

func paymentRecord(p entity.StaffPayment) []string {
	notes := ""
	if p.Notes != nil {
		notes = *p.Notes
	}
	return []string{
		p.PaidAt.UTC().Format(time.RFC3339),
		p.StaffName,
		p.Kind,
		p.Period,
		p.Method,
		money.FromCents(p.Amount).StringFixed(2),
		notes,
	}
}

func writePaymentsCSV(payments []entity.StaffPayment, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paymentColumns); err != nil {
		return err
	}
	for _, p := range payments {
		if err := cw.Write(paymentRecord(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const paymentsSheet = "Payments"

func writePaymentsXLSX(payments []entity.StaffPayment, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paymentsSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(paymentColumns))
	for i, c := range paymentColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(paymentsSheet, "A1", &header); err != nil {
		return err
	}

	for i, p := range payments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		rec := paymentRecord(p)
		row := []interface{}{
			p.PaidAt.UTC(),
			rec[1], rec[2], rec[3], rec[4],
			money.FromCents(p.Amount).InexactFloat64(),
			rec[6],
		}
		if err := f.SetSheetRow(paymentsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
