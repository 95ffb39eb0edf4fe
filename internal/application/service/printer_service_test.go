package service

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterService_PrintTicket(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.40")
	sale := env.ring(t, env.cashier, enum.PaymentMethodCash, latte, latte)

	ticket, err := env.printing.PrintTicket(env.ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.OrderNo, ticket.OrderNo)
	assert.Equal(t, "Test Roastery", ticket.Header.StoreName)
	assert.Equal(t, "6.80 €", ticket.Total)
	assert.Equal(t, "VAT 10%", ticket.TaxLabel)
	require.Len(t, ticket.Lines, 1)
	assert.Equal(t, 2, ticket.Lines[0].Quantity)
	assert.Equal(t, "3.40 €", ticket.Lines[0].UnitPrice)

	require.Len(t, env.printer.Jobs, 1)
	job := env.printer.Jobs[0]
	assert.True(t, bytes.HasPrefix(job, []byte{0x1b, '@'}))
	assert.Contains(t, string(job), sale.OrderNo)
	assert.Contains(t, string(job), "Thank you!")

	_, err = env.printing.PrintTicket(env.ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound)
	assert.Len(t, env.printer.Jobs, 1)
}

func TestPrinterService_RenderHTML(t *testing.T) {
	env := newTestEnv(t)
	latte := env.seedItem(t, "Coffee", "Latte", "3.40")
	sale := env.ring(t, env.cashier, enum.PaymentMethodCard, latte)
	_, err := env.sales.Refund(env.ctx, env.admin, sale.ID, &RefundInput{Amount: dec("1.00"), Reason: "spilled"})
	require.NoError(t, err)

	html, err := env.printing.RenderHTML(env.ctx, sale.ID)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "<title>"+sale.OrderNo+"</title>")
	assert.Contains(t, page, "1 x Latte")
	assert.Contains(t, page, "1.00 €")
	assert.Contains(t, page, "partially-refunded")
}

func TestPrinterService_Status(t *testing.T) {
	env := newTestEnv(t)

	status := env.printing.GetStatus()
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, printer.KindNone, status.Type)
	assert.Equal(t, 32, status.CharWidth)
}
