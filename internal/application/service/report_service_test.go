package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.00")
	cake := env.seedItem(t, "Bakery", "Cake", "5.00")

	env.ring(t, env.cashier, enum.PaymentMethodCash, latte, latte)
	refunded := env.ring(t, env.admin, enum.PaymentMethodCard, cake)
	env.clock.Advance(24 * time.Hour)
	env.ring(t, env.cashier, enum.PaymentMethodCard, latte, cake)

	_, err := env.sales.Refund(env.ctx, env.admin, refunded.ID, &RefundInput{Amount: dec("5"), Reason: "dropped"})
	require.NoError(t, err)

	summary, err := env.reports.Summary(env.ctx, ReportRange{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TransactionCount)
	assert.Equal(t, 1, summary.RefundCount)
	assert.True(t, summary.GrossSales.Equal(dec("19")))
	assert.True(t, summary.TotalRefunds.Equal(dec("5")))
	assert.True(t, summary.NetSales.Equal(dec("14")))
	assert.True(t, summary.AverageTicket.Equal(dec("4.67")))

	daily, err := env.reports.Daily(env.ctx, ReportRange{})
	require.NoError(t, err)
	require.Len(t, daily, 2)

	top, err := env.reports.TopItems(env.ctx, ReportRange{}, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Latte", top[0].Name)
	assert.Equal(t, 3, top[0].Quantity)

	staff, err := env.reports.ByStaff(env.ctx, ReportRange{})
	require.NoError(t, err)
	assert.Len(t, staff, 2)

	from := env.clock.Now().Add(-time.Hour)
	recent, err := env.reports.Summary(env.ctx, ReportRange{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, recent.TransactionCount)

	to := from.Add(-time.Hour)
	_, err = env.reports.Summary(env.ctx, ReportRange{From: &from, To: &to})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}
