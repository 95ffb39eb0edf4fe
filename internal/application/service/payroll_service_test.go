package service

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func (e *testEnv) recordPayments(t *testing.T) {
	t.Helper()
	_, err := e.payroll.RecordPayment(e.ctx, e.admin, &RecordPaymentInput{
		StaffID: e.cashier.StaffID,
		Kind:    PaymentKindSalary,
		Period:  "2026-02",
		Method:  PayoutTransfer,
		Amount:  dec("1200.50"),
	})
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	_, err = e.payroll.RecordPayment(e.ctx, e.admin, &RecordPaymentInput{
		StaffID: e.cashier.StaffID,
		Kind:    PaymentKindBonus,
		Period:  "2026-02",
		Method:  PayoutCash,
		Amount:  dec("50"),
		Notes:   "  busy weekend ",
	})
	require.NoError(t, err)
}

func TestPayrollService_RecordAndList(t *testing.T) {
	env := newTestEnv(t)
	env.recordPayments(t)

	list, err := env.payroll.ListPayments(env.ctx, &repository.StaffPaymentFilterParams{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)

	latest := list.Items[0]
	assert.Equal(t, PaymentKindBonus, latest.Kind)
	assert.Equal(t, int64(5000), latest.Amount)
	assert.Equal(t, env.cashier.Name, latest.StaffName)
	require.NotNil(t, latest.Notes)
	assert.Equal(t, "busy weekend", *latest.Notes)
	assert.Equal(t, env.admin.StaffID, latest.CreatedBy)

	salaries, err := env.payroll.ListPayments(env.ctx, &repository.StaffPaymentFilterParams{Kind: PaymentKindSalary})
	require.NoError(t, err)
	require.Len(t, salaries.Items, 1)
	assert.Equal(t, int64(120050), salaries.Items[0].Amount)
}

func TestPayrollService_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payroll.RecordPayment(env.ctx, env.admin, &RecordPaymentInput{
		StaffID: env.cashier.StaffID,
		Kind:    "tip",
		Period:  "2026-13",
		Method:  "cheque",
		Amount:  dec("0"),
	})
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, appErr.Errors, 4)

	_, err = env.payroll.RecordPayment(env.ctx, env.admin, &RecordPaymentInput{
		StaffID: uuid.New(),
		Kind:    PaymentKindAdvance,
		Period:  "2026-03",
		Method:  PayoutCash,
		Amount:  dec("20"),
	})
	assertAppError(t, err, http.StatusNotFound)
}

func TestPayrollService_Export(t *testing.T) {
	env := newTestEnv(t)
	env.recordPayments(t)

	var buf bytes.Buffer
	require.NoError(t, env.payroll.ExportPayments(env.ctx, &repository.StaffPaymentFilterParams{}, ExportCSV, &buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, paymentColumns, records[0])
	assert.Equal(t, []string{"2026-03-02T10:00:00Z", "Carl Cashier", "bonus", "2026-02", "cash", "50.00", "busy weekend"}, records[1])
	assert.Equal(t, "1200.50", records[2][5])

	buf.Reset()
	require.NoError(t, env.payroll.ExportPayments(env.ctx, &repository.StaffPaymentFilterParams{}, ExportXLSX, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(paymentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, paymentColumns, rows[0])
	assert.Equal(t, "Carl Cashier", rows[1][1])
	assert.Equal(t, "salary", rows[2][2])

	err = env.payroll.ExportPayments(env.ctx, &repository.StaffPaymentFilterParams{}, "pdf", &buf)
	assertAppError(t, err, http.StatusUnprocessableEntity)
}
