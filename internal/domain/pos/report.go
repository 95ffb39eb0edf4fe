package pos

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

// PaymentSplit is the net revenue and count for one payment method
type PaymentSplit struct {
	Count int
	Net   decimal.Decimal
}

// Summary aggregates a slice of the ledger. Revenue is netted: refunds are
// subtracted from NetSales and reported separately in TotalRefunds.
type Summary struct {
	TransactionCount int
	RefundCount      int
	GrossSales       decimal.Decimal
	TotalRefunds     decimal.Decimal
	NetSales         decimal.Decimal
	AverageTicket    decimal.Decimal
	TotalTax         decimal.Decimal
	Cash             PaymentSplit
	Card             PaymentSplit
}

// Summarize reduces sales into a Summary. AverageTicket is net sales over the
// transaction count, zero for an empty ledger.
func Summarize(sales []entity.Sale) Summary {
	var gross, refunds, tax, cashNet, cardNet int64
	sum := Summary{}

	for _, s := range sales {
		sum.TransactionCount++
		gross += s.Total
		refunds += s.RefundAmount
		tax += s.TaxAmount
		if s.RefundAmount > 0 {
			sum.RefundCount++
		}

		net := s.Total - s.RefundAmount
		switch s.PaymentMethod {
		case enum.PaymentMethodCash:
			sum.Cash.Count++
			cashNet += net
		case enum.PaymentMethodCard:
			sum.Card.Count++
			cardNet += net
		}
	}

	sum.GrossSales = money.FromCents(gross)
	sum.TotalRefunds = money.FromCents(refunds)
	sum.NetSales = money.FromCents(gross - refunds)
	sum.TotalTax = money.FromCents(tax)
	sum.Cash.Net = money.FromCents(cashNet)
	sum.Card.Net = money.FromCents(cardNet)
	sum.AverageTicket = decimal.Zero
	if sum.TransactionCount > 0 {
		sum.AverageTicket = sum.NetSales.Div(decimal.NewFromInt(int64(sum.TransactionCount))).Round(2)
	}
	return sum
}

// MarshalJSON renders amounts as numbers
func (s Summary) MarshalJSON() ([]byte, error) {
	type split struct {
		Count int     `json:"count"`
		Net   float64 `json:"net"`
	}
	return json.Marshal(&struct {
		TransactionCount int     `json:"transaction_count"`
		RefundCount      int     `json:"refund_count"`
		GrossSales       float64 `json:"gross_sales"`
		TotalRefunds     float64 `json:"total_refunds"`
		NetSales         float64 `json:"net_sales"`
		AverageTicket    float64 `json:"average_ticket"`
		TotalTax         float64 `json:"total_tax"`
		Cash             split   `json:"cash"`
		Card             split   `json:"card"`
	}{
		TransactionCount: s.TransactionCount,
		RefundCount:      s.RefundCount,
		GrossSales:       s.GrossSales.InexactFloat64(),
		TotalRefunds:     s.TotalRefunds.InexactFloat64(),
		NetSales:         s.NetSales.InexactFloat64(),
		AverageTicket:    s.AverageTicket.InexactFloat64(),
		TotalTax:         s.TotalTax.InexactFloat64(),
		Cash:             split{Count: s.Cash.Count, Net: s.Cash.Net.InexactFloat64()},
		Card:             split{Count: s.Card.Count, Net: s.Card.Net.InexactFloat64()},
	})
}

// DaySales is the summary of one calendar day
type DaySales struct {
	Date    string  `json:"date"`
	Summary Summary `json:"summary"`
}

// DailyBreakdown groups sales by calendar day in loc, oldest day first
func DailyBreakdown(sales []entity.Sale, loc *time.Location) []DaySales {
	byDay := make(map[string][]entity.Sale)
	for _, s := range sales {
		key := DateKey(s.SoldAt, loc)
		byDay[key] = append(byDay[key], s)
	}

	days := make([]DaySales, 0, len(byDay))
	for day, group := range byDay {
		days = append(days, DaySales{Date: day, Summary: Summarize(group)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// ItemSales is the quantity and revenue of one item across sales
type ItemSales struct {
	Name     string
	Category string
	Quantity int
	Revenue  decimal.Decimal
}

// MarshalJSON renders revenue as a number
func (i ItemSales) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Quantity int     `json:"quantity"`
		Revenue  float64 `json:"revenue"`
	}{i.Name, i.Category, i.Quantity, i.Revenue.InexactFloat64()})
}

// TopItems ranks snapshotted line names by quantity sold, then revenue, then
// name. A limit of zero or less returns every item.
func TopItems(sales []entity.Sale, limit int) []ItemSales {
	type acc struct {
		category string
		qty      int
		cents    int64
	}
	byName := make(map[string]*acc)
	for _, s := range sales {
		for _, l := range s.Lines {
			a, ok := byName[l.Name]
			if !ok {
				a = &acc{category: l.Category}
				byName[l.Name] = a
			}
			a.qty += l.Quantity
			a.cents += l.LineTotal
		}
	}

	items := make([]ItemSales, 0, len(byName))
	for name, a := range byName {
		items = append(items, ItemSales{Name: name, Category: a.category, Quantity: a.qty, Revenue: money.FromCents(a.cents)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity > items[j].Quantity
		}
		if !items[i].Revenue.Equal(items[j].Revenue) {
			return items[i].Revenue.GreaterThan(items[j].Revenue)
		}
		return items[i].Name < items[j].Name
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// StaffSales is the summary of the sales rung up by one staff member
type StaffSales struct {
	StaffID   uuid.UUID `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Summary   Summary   `json:"summary"`
}

// ByStaff groups sales by staff member, highest net sales first
func ByStaff(sales []entity.Sale) []StaffSales {
	groups := make(map[uuid.UUID][]entity.Sale)
	names := make(map[uuid.UUID]string)
	for _, s := range sales {
		groups[s.StaffID] = append(groups[s.StaffID], s)
		names[s.StaffID] = s.StaffName
	}

	out := make([]StaffSales, 0, len(groups))
	for id, group := range groups {
		out = append(out, StaffSales{StaffID: id, StaffName: names[id], Summary: Summarize(group)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Summary.NetSales.Equal(out[j].Summary.NetSales) {
			return out[i].Summary.NetSales.GreaterThan(out[j].Summary.NetSales)
		}
		return out[i].StaffName < out[j].StaffName
	})
	return out
}
