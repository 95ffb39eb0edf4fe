package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is the part of a catalog item the cart needs
type CartItem struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// CartLine is an item with a quantity of at least one
type CartLine struct {
	Item     CartItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// LineTotal returns price × quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines keyed by item id. Lines keep the
// order in which items were first added. A Cart is not safe for concurrent use.
type Cart struct {
	lines []CartLine
	index map[uuid.UUID]int
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{index: make(map[uuid.UUID]int)}
}

// Add increments the item's quantity, appending a new line the first time
func (c *Cart) Add(item CartItem) {
	if i, ok := c.index[item.ID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[item.ID] = len(c.lines)
	c.lines = append(c.lines, CartLine{Item: item, Quantity: 1})
}

// AddLine merges a whole line into the cart, keeping the existing position
// when the item is already there
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity < 1 {
		return
	}
	if i, ok := c.index[line.Item.ID]; ok {
		c.lines[i].Quantity += line.Quantity
		return
	}
	c.index[line.Item.ID] = len(c.lines)
	c.lines = append(c.lines, line)
}

// Remove decrements the item's quantity and drops the line when it reaches
// zero. It reports whether the item was in the cart.
func (c *Cart) Remove(itemID uuid.UUID) bool {
	i, ok := c.index[itemID]
	if !ok {
		return false
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return true
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, itemID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Item.ID] = j
	}
	return true
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[uuid.UUID]int)
}

// Lines returns a copy of the lines in display order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the quantity of an item, or zero when absent
func (c *Cart) Quantity(itemID uuid.UUID) int {
	if i, ok := c.index[itemID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

// Total is recomputed from the lines on every call
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount returns the number of units across all lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
