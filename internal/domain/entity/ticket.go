package entity

import "time"

// TicketHeader holds the store details printed at the top of a ticket.
type TicketHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// TicketLine is a single printed line item with preformatted prices.
type TicketLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Ticket is a printable sales ticket. It is composed from a sale at print
// time and never stored.
type Ticket struct {
	Header        TicketHeader `json:"header"`
	OrderNo       string       `json:"order_no"`
	SoldAt        time.Time    `json:"sold_at"`
	Cashier       string       `json:"cashier"`
	PaymentMethod string       `json:"payment_method"`
	Lines         []TicketLine `json:"lines"`
	TaxLabel      string       `json:"tax_label"`
	TaxIncluded   bool         `json:"tax_included"`
	Subtotal      string       `json:"subtotal"`
	TaxAmount     string       `json:"tax_amount"`
	Total         string       `json:"total"`
	Refunded      string       `json:"refunded,omitempty"`
	Status        string       `json:"status"`
	Notes         string       `json:"notes,omitempty"`
}
