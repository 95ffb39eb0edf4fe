package pos

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var soldAt = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func saleOf(t *testing.T, total string, method enum.PaymentMethod, staff string, items ...CartItem) *entity.Sale {
	t.Helper()
	c := NewCart()
	for _, it := range items {
		c.Add(it)
	}
	if len(items) == 0 {
		c.Add(CartItem{ID: uuid.New(), Name: "Catering tray", Category: "Catering", Price: dec(total)})
	}
	res, err := ComputeTax(c.Total(), dec("10"), true)
	require.NoError(t, err)

	sale, err := NewSale(c.Lines(), SaleInput{
		StoreID:       uuid.New(),
		StaffID:       uuid.New(),
		StaffName:     staff,
		OrderNo:       "ORD-" + uuid.NewString()[:8],
		PaymentMethod: method,
		Tax:           res.Rounded(enum.RoundingHalfUp),
		TaxName:       "VAT",
		At:            soldAt,
	})
	require.NoError(t, err)
	return sale
}

func TestNewSale_SnapshotsLines(t *testing.T) {
	espresso, croissant := coffeeItems()
	sale := saleOf(t, "", enum.PaymentMethodCash, "Ana", espresso, espresso, croissant)

	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Equal(t, int64(680), sale.Total)
	assert.Equal(t, sale.Total, sale.Subtotal+sale.TaxAmount)
	require.Len(t, sale.Lines, 2)
	assert.Equal(t, "Espresso", sale.Lines[0].Name)
	assert.Equal(t, int64(250), sale.Lines[0].UnitPrice)
	assert.Equal(t, 2, sale.Lines[0].Quantity)
	assert.Equal(t, int64(500), sale.Lines[0].LineTotal)
	assert.Equal(t, "Bakery", sale.Lines[1].Category)

	espresso.Name = "Renamed"
	assert.Equal(t, "Espresso", sale.Lines[0].Name)
}

func TestNewSale_EmptyCart(t *testing.T) {
	_, err := NewSale(nil, SaleInput{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestApplyRefund_Full(t *testing.T) {
	sale := saleOf(t, "32.00", enum.PaymentMethodCard, "Ana")
	at := soldAt.Add(time.Hour)

	require.NoError(t, ApplyRefund(sale, dec("32.00"), "defective", at))
	assert.Equal(t, enum.SaleStatusRefunded, sale.Status)
	assert.Equal(t, int64(3200), sale.RefundAmount)
	assert.Equal(t, "defective", *sale.RefundReason)
	assert.Equal(t, at, *sale.RefundedAt)
	assert.Equal(t, soldAt, sale.SoldAt)
	assert.Len(t, sale.Lines, 1)

	err := ApplyRefund(sale, dec("32.00"), "defective", at)
	assert.ErrorIs(t, err, ErrRefundExceedsBalance)
	assert.Equal(t, int64(3200), sale.RefundAmount)
}

func TestApplyRefund_PartialStacks(t *testing.T) {
	sale := saleOf(t, "32.00", enum.PaymentMethodCash, "Ana")

	require.NoError(t, ApplyRefund(sale, dec("10"), "cold coffee", soldAt))
	assert.Equal(t, enum.SaleStatusPartiallyRefunded, sale.Status)
	assert.Equal(t, int64(1000), sale.RefundAmount)

	err := ApplyRefund(sale, dec("22.01"), "too much", soldAt)
	assert.ErrorIs(t, err, ErrRefundExceedsBalance)
	assert.Equal(t, enum.SaleStatusPartiallyRefunded, sale.Status)

	require.NoError(t, ApplyRefund(sale, dec("22"), "rest", soldAt))
	assert.Equal(t, enum.SaleStatusRefunded, sale.Status)
	assert.Equal(t, sale.Total, sale.RefundAmount)
}

func TestApplyRefund_InvalidAmounts(t *testing.T) {
	sale := saleOf(t, "5.00", enum.PaymentMethodCash, "Ana")

	for _, amount := range []string{"0", "-1", "-0.001"} {
		err := ApplyRefund(sale, dec(amount), "x", soldAt)
		assert.ErrorIs(t, err, ErrInvalidRefundAmount, amount)
	}
	for _, amount := range []string{"0.001", "1.005", "4.999"} {
		err := ApplyRefund(sale, dec(amount), "x", soldAt)
		assert.ErrorIs(t, err, ErrRefundPrecision, amount)
	}
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Zero(t, sale.RefundAmount)
	assert.Nil(t, sale.RefundedAt)

	require.NoError(t, ApplyRefund(sale, dec("1.500"), "trailing zeros", soldAt))
	assert.Equal(t, int64(150), sale.RefundAmount)
}

func TestFilterSales(t *testing.T) {
	espresso, croissant := coffeeItems()
	a := saleOf(t, "", enum.PaymentMethodCash, "Ana", espresso)
	b := saleOf(t, "", enum.PaymentMethodCard, "Bruno", croissant)
	c := saleOf(t, "", enum.PaymentMethodCard, "Carla", espresso, croissant)
	require.NoError(t, ApplyRefund(c, dec("1"), "spill", soldAt))
	ledger := []entity.Sale{*a, *b, *c}

	assert.Len(t, FilterSales(ledger, SaleFilter{}), 3)
	assert.Len(t, FilterSales(ledger, SaleFilter{PaymentMethod: enum.PaymentMethodCard}), 2)
	assert.Len(t, FilterSales(ledger, SaleFilter{Status: enum.SaleStatusPartiallyRefunded}), 1)

	got := FilterSales(ledger, SaleFilter{Search: "CROISS"})
	require.Len(t, got, 2)
	assert.Equal(t, "Bruno", got[0].StaffName)
	assert.Equal(t, "Carla", got[1].StaffName)

	got = FilterSales(ledger, SaleFilter{Search: "croissant", PaymentMethod: enum.PaymentMethodCard, Status: enum.SaleStatusCompleted})
	require.Len(t, got, 1)
	assert.Equal(t, "Bruno", got[0].StaffName)

	assert.Len(t, FilterSales(ledger, SaleFilter{Search: a.OrderNo}), 1)
	assert.Len(t, FilterSales(ledger, SaleFilter{Search: b.StaffID.String()[:13]}), 1)
	assert.Len(t, FilterSales(ledger, SaleFilter{Search: "ana"}), 1)

	staffID := a.StaffID
	assert.Len(t, FilterSales(ledger, SaleFilter{StaffID: &staffID}), 1)
}

func TestSummarize_NetsRefunds(t *testing.T) {
	espresso, croissant := coffeeItems()
	cash := saleOf(t, "", enum.PaymentMethodCash, "Ana", espresso, espresso, croissant)
	card := saleOf(t, "32.00", enum.PaymentMethodCard, "Bruno")
	require.NoError(t, ApplyRefund(card, dec("10"), "partial", soldAt))

	sum := Summarize([]entity.Sale{*cash, *card})
	assert.Equal(t, 2, sum.TransactionCount)
	assert.Equal(t, 1, sum.RefundCount)
	assert.Equal(t, "38.80", sum.GrossSales.StringFixed(2))
	assert.Equal(t, "10.00", sum.TotalRefunds.StringFixed(2))
	assert.Equal(t, "28.80", sum.NetSales.StringFixed(2))
	assert.Equal(t, "14.40", sum.AverageTicket.StringFixed(2))
	assert.Equal(t, 1, sum.Cash.Count)
	assert.Equal(t, "6.80", sum.Cash.Net.StringFixed(2))
	assert.Equal(t, "22.00", sum.Card.Net.StringFixed(2))

	empty := Summarize(nil)
	assert.Zero(t, empty.TransactionCount)
	assert.True(t, empty.AverageTicket.IsZero())
}

func TestReports_TopItemsAndByStaff(t *testing.T) {
	espresso, croissant := coffeeItems()
	s1 := saleOf(t, "", enum.PaymentMethodCash, "Ana", espresso, espresso, croissant)
	s2 := saleOf(t, "", enum.PaymentMethodCash, "Bruno", espresso)
	s2.SoldAt = soldAt.Add(24 * time.Hour)
	ledger := []entity.Sale{*s1, *s2}

	top := TopItems(ledger, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "Espresso", top[0].Name)
	assert.Equal(t, 3, top[0].Quantity)
	assert.Equal(t, "7.50", top[0].Revenue.StringFixed(2))

	staff := ByStaff(ledger)
	require.Len(t, staff, 2)
	assert.Equal(t, "Ana", staff[0].StaffName)

	days := DailyBreakdown(ledger, time.UTC)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "2026-03-03", days[1].Date)
	assert.Equal(t, "2.50", days[1].Summary.NetSales.StringFixed(2))
}
