package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService composes sales tickets and sends them to the thermal printer
type PrinterService struct {
	printer     printer.Printer
	printerType string
	charWidth   int
	saleRepo    repository.SaleRepository
	storeRepo   repository.StoreRepository
	posConfig   *POSConfigService
	log         *zap.Logger

	mu sync.Mutex
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	printerType string,
	charWidth int,
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	posConfig *POSConfigService,
	log *zap.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		printerType: printerType,
		charWidth:   charWidth,
		saleRepo:    saleRepo,
		storeRepo:   storeRepo,
		posConfig:   posConfig,
		log:         loggerOrNop(log),
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// GetStatus returns printer connection status
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.KindNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		CharWidth:  s.charWidth,
	}
}

// BuildTicket composes the printable ticket of a sale with prices formatted
// per the store's display settings
func (s *PrinterService) BuildTicket(ctx context.Context, saleID uuid.UUID) (*entity.Ticket, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	store, err := s.storeRepo.GetByID(ctx, sale.StoreID)
	if err != nil {
		return nil, err
	}
	settings, err := s.posConfig.Settings(ctx, sale.StoreID)
	if err != nil {
		return nil, err
	}
	return composeTicket(sale, store, settings), nil
}

// PrintTicket builds a sale's ticket and sends it to the printer. The ticket
// is returned even when printing fails so the caller can show it.
func (s *PrinterService) PrintTicket(ctx context.Context, saleID uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.BuildTicket(ctx, saleID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = s.printer.Print(FormatTicket(ticket, s.charWidth))
	s.mu.Unlock()
	if err != nil {
		s.log.Error("ticket print failed", zap.String("order_no", ticket.OrderNo), zap.Error(err))
		return ticket, apperror.NewAppError(502, "Failed to print ticket: "+err.Error())
	}
	return ticket, nil
}

// RenderHTML renders a sale's ticket as a standalone HTML document
func (s *PrinterService) RenderHTML(ctx context.Context, saleID uuid.UUID) ([]byte, error) {
	ticket, err := s.BuildTicket(ctx, saleID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ticketHTML.Execute(&buf, ticket); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func composeTicket(sale *entity.Sale, store *entity.Store, settings entity.POSSettings) *entity.Ticket {
	display := settings.Display
	ticket := &entity.Ticket{
		OrderNo:       sale.OrderNo,
		SoldAt:        sale.SoldAt,
		Cashier:       sale.StaffName,
		PaymentMethod: string(sale.PaymentMethod),
		TaxLabel:      fmt.Sprintf("%s %s%%", sale.TaxName, sale.TaxRate),
		TaxIncluded:   sale.TaxIncluded,
		Subtotal:      pos.FormatCents(sale.Subtotal, display),
		TaxAmount:     pos.FormatCents(sale.TaxAmount, display),
		Total:         pos.FormatCents(sale.Total, display),
		Status:        string(sale.Status),
		Lines:         make([]entity.TicketLine, 0, len(sale.Lines)),
	}
	if store != nil {
		ticket.Header = entity.TicketHeader{
			StoreName: store.Name,
			Address:   store.Address,
			Phone:     store.Phone,
			TaxID:     store.TaxID,
		}
	}
	if sale.RefundAmount > 0 {
		ticket.Refunded = pos.FormatCents(sale.RefundAmount, display)
	}
	if sale.Notes != nil {
		ticket.Notes = *sale.Notes
	}
	for _, l := range sale.Lines {
		ticket.Lines = append(ticket.Lines, entity.TicketLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: pos.FormatCents(l.UnitPrice, display),
			Total:     pos.FormatCents(l.LineTotal, display),
		})
	}
	return ticket
}

// FormatTicket converts a ticket into ESC/POS bytes for a printer of the
// given character width
func FormatTicket(t *entity.Ticket, width int) []byte {
	b := printer.NewTicket(width)

	b.Align(printer.AlignCenter).Bold(true).Size(printer.SizeDouble).Line(t.Header.StoreName)
	b.Size(printer.SizeNormal).Bold(false)
	if t.Header.Address != "" {
		b.Line(t.Header.Address)
	}
	if t.Header.Phone != "" {
		b.Line(t.Header.Phone)
	}
	if t.Header.TaxID != "" {
		b.Line("Tax ID: " + t.Header.TaxID)
	}
	b.Feed(1).Align(printer.AlignLeft)

	b.Line("Order: " + t.OrderNo)
	b.Line("Date: " + t.SoldAt.Format("2006-01-02 15:04"))
	b.Line("Cashier: " + t.Cashier)
	b.Rule('-')

	for _, l := range t.Lines {
		b.Line(l.Name)
		b.Columns("  "+strconv.Itoa(l.Quantity)+" x "+l.UnitPrice, l.Total)
	}
	b.Rule('-')

	b.Columns("Subtotal", t.Subtotal)
	taxLabel := t.TaxLabel
	if t.TaxIncluded {
		taxLabel += " (incl.)"
	}
	b.Columns(taxLabel, t.TaxAmount)
	b.Bold(true).Columns("TOTAL", t.Total).Bold(false)
	b.Columns("Paid by", t.PaymentMethod)
	if t.Refunded != "" {
		b.Columns("Refunded", t.Refunded)
	}
	if t.Status != string(enum.SaleStatusCompleted) {
		b.Align(printer.AlignCenter).Bold(true).Line("*** " + t.Status + " ***").Bold(false).Align(printer.AlignLeft)
	}
	if t.Notes != "" {
		b.Feed(1).Line(t.Notes)
	}

	b.Feed(1).Align(printer.AlignCenter).Line("Thank you!").Feed(3).Cut()
	return b.Bytes()
}

var ticketHTML = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.OrderNo}}</title>
<style>
body { font-family: monospace; max-width: 320px; margin: 0 auto; }
h1 { font-size: 1.2em; text-align: center; margin-bottom: 0; }
.center { text-align: center; }
table { width: 100%; border-collapse: collapse; }
td.num { text-align: right; }
tr.total td { font-weight: bold; border-top: 1px dashed #000; }
</style>
</head>
<body>
<h1>{{.Header.StoreName}}</h1>
{{with .Header.Address}}<div class="center">{{.}}</div>{{end}}
{{with .Header.Phone}}<div class="center">{{.}}</div>{{end}}
{{with .Header.TaxID}}<div class="center">Tax ID: {{.}}</div>{{end}}
<p>Order: {{.OrderNo}}<br>Date: {{.SoldAt.Format "2006-01-02 15:04"}}<br>Cashier: {{.Cashier}}</p>
<table>
{{range .Lines}}<tr><td>{{.Quantity}} x {{.Name}}</td><td class="num">{{.Total}}</td></tr>
{{end}}<tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
<tr><td>{{.TaxLabel}}{{if .TaxIncluded}} (incl.){{end}}</td><td class="num">{{.TaxAmount}}</td></tr>
<tr class="total"><td>TOTAL</td><td class="num">{{.Total}}</td></tr>
<tr><td>Paid by</td><td class="num">{{.PaymentMethod}}</td></tr>
{{with .Refunded}}<tr><td>Refunded</td><td class="num">{{.}}</td></tr>{{end}}
</table>
{{if ne .Status "completed"}}<p class="center"><strong>{{.Status}}</strong></p>{{end}}
{{with .Notes}}<p>{{.}}</p>{{end}}
<p class="center">Thank you!</p>
</body>
</html>
`))
