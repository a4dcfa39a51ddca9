package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLine is one product and how many of it the shopper wants.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line price times the quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of one shopping session. It is not safe for
// concurrent use; each session owns its own cart.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem merges quantity into the line for product, appending a new line
// when none exists. Non-positive quantities are ignored.
func (c *Cart) AddItem(product Product, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.SameAs(product) {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: quantity})
}

// RemoveLine drops the line for product, if any.
func (c *Cart) RemoveLine(product Product) {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if !l.Product.SameAs(product) {
			kept = append(kept, l)
		}
	}
	// clear the tail so removed products are not retained
	for i := len(kept); i < len(c.lines); i++ {
		c.lines[i] = CartLine{}
	}
	c.lines = kept
}

func (c *Cart) ComputeTotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in first-add order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

type cartJSON struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.Lines()
	return json.Marshal(cartJSON{Lines: lines, Total: c.ComputeTotalValue()})
}

// UnmarshalJSON rebuilds the cart through AddItem so a stored payload can
// never break the one-line-per-product rule.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.lines = nil
	for _, l := range raw.Lines {
		c.AddItem(l.Product, l.Quantity)
	}
	return nil
}
