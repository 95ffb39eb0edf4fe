package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/shopspring/decimal"
)

type sessionKey struct {
	storeID uuid.UUID
	staffID uuid.UUID
}

// CartService keeps one cart per POS session. A session is a staff member
// signed in at a store. Carts live in memory and are lost on restart.
type CartService struct {
	itemRepo  repository.CatalogItemRepository
	posConfig *POSConfigService

	mu    sync.Mutex
	carts map[sessionKey]*pos.Cart
}

// NewCartService creates a new cart service
func NewCartService(itemRepo repository.CatalogItemRepository, posConfig *POSConfigService) *CartService {
	return &CartService{
		itemRepo:  itemRepo,
		posConfig: posConfig,
		carts:     make(map[sessionKey]*pos.Cart),
	}
}

// CartLineView is one cart line as shown on the POS
type CartLineView struct {
	ItemID         uuid.UUID       `json:"item_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"line_total"`
	FormattedTotal string          `json:"formatted_total"`
}

// TaxPreview is the tax breakdown the current cart would be charged
type TaxPreview struct {
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Included  bool            `json:"included"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// CartView is the cart with its totals. ItemsTotal is the sum of the
// lines; Total is what the customer pays once tax is applied.
type CartView struct {
	Lines          []CartLineView  `json:"lines"`
	ItemCount      int             `json:"item_count"`
	ItemsTotal     decimal.Decimal `json:"items_total"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	Tax            TaxPreview      `json:"tax"`
}

// AddItem adds one unit of a catalog item to the actor's cart
func (s *CartService) AddItem(ctx context.Context, actor Actor, itemID uuid.UUID) (*CartView, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	if !item.Sellable() {
		return nil, apperror.NewBadRequestError("Item is not available for sale")
	}

	s.mu.Lock()
	s.cart(actor).Add(toCartItem(item))
	lines := s.cart(actor).Lines()
	s.mu.Unlock()

	return s.view(ctx, actor, lines)
}

// RemoveItem removes one unit of an item. Removing an item that is not in
// the cart changes nothing.
func (s *CartService) RemoveItem(ctx context.Context, actor Actor, itemID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	s.cart(actor).Remove(itemID)
	lines := s.cart(actor).Lines()
	s.mu.Unlock()

	return s.view(ctx, actor, lines)
}

// Clear empties the actor's cart
func (s *CartService) Clear(actor Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionKey{storeID: actor.StoreID, staffID: actor.StaffID})
}

// Take empties the actor's cart and returns what it held, in one step.
// A second checkout racing this one finds the cart empty.
func (s *CartService) Take(actor Actor) []pos.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{storeID: actor.StoreID, staffID: actor.StaffID}
	c, ok := s.carts[key]
	if !ok {
		return nil
	}
	delete(s.carts, key)
	return c.Lines()
}

// Restore puts taken lines back ahead of anything added since the Take
func (s *CartService) Restore(actor Actor, lines []pos.CartLine) {
	if len(lines) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := pos.NewCart()
	for _, l := range lines {
		restored.AddLine(l)
	}
	key := sessionKey{storeID: actor.StoreID, staffID: actor.StaffID}
	if c, ok := s.carts[key]; ok {
		for _, l := range c.Lines() {
			restored.AddLine(l)
		}
	}
	s.carts[key] = restored
}

// View returns the actor's cart with a live tax preview
func (s *CartService) View(ctx context.Context, actor Actor) (*CartView, error) {
	return s.view(ctx, actor, s.Lines(actor))
}

// Lines returns a copy of the actor's cart lines
func (s *CartService) Lines(actor Actor) []pos.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionKey{storeID: actor.StoreID, staffID: actor.StaffID}]; ok {
		return c.Lines()
	}
	return nil
}

// cart returns the session's cart, creating it. Callers hold s.mu.
func (s *CartService) cart(actor Actor) *pos.Cart {
	key := sessionKey{storeID: actor.StoreID, staffID: actor.StaffID}
	c, ok := s.carts[key]
	if !ok {
		c = pos.NewCart()
		s.carts[key] = c
	}
	return c
}

func (s *CartService) view(ctx context.Context, actor Actor, lines []pos.CartLine) (*CartView, error) {
	settings, err := s.posConfig.Settings(ctx, actor.StoreID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	count := 0
	views := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		lineTotal := l.LineTotal()
		total = total.Add(lineTotal)
		count += l.Quantity
		views = append(views, CartLineView{
			ItemID:         l.Item.ID,
			Name:           l.Item.Name,
			Category:       l.Item.Category,
			UnitPrice:      l.Item.Price,
			Quantity:       l.Quantity,
			LineTotal:      lineTotal,
			FormattedTotal: pos.FormatPrice(lineTotal, settings.Display),
		})
	}

	tax, err := computeTax(total, settings.Taxes)
	if err != nil {
		return nil, err
	}

	return &CartView{
		Lines:          views,
		ItemCount:      count,
		ItemsTotal:     total,
		Total:          tax.Total,
		FormattedTotal: pos.FormatPrice(tax.Total, settings.Display),
		Tax: TaxPreview{
			Name:      settings.Taxes.TaxName,
			Rate:      tax.Rate,
			Included:  tax.Included,
			Subtotal:  tax.Subtotal,
			TaxAmount: tax.TaxAmount,
			Total:     tax.Total,
		},
	}, nil
}

// computeTax applies the store's tax settings to a cart total and rounds the result
func computeTax(total decimal.Decimal, taxes entity.TaxSettings) (pos.TaxResult, error) {
	res, err := pos.ComputeTax(total, decimal.NewFromFloat(taxes.DefaultTaxRate), taxes.IncludeInPrice)
	if err != nil {
		return pos.TaxResult{}, translatePOSError(err)
	}
	return res.Rounded(taxes.RoundingMode), nil
}

func toCartItem(item *entity.CatalogItem) pos.CartItem {
	ci := pos.CartItem{
		ID:    item.ID,
		Name:  item.Name,
		Price: money.FromCents(item.Price),
	}
	if item.Category != nil {
		ci.Category = item.Category.Name
	}
	return ci
}
