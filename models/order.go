package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the snapshot handed to an order processor at checkout.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	Lines       []CartLine      `json:"lines"`
	Shipping    ShippingDetails `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// NewOrder copies the cart so later cart changes do not leak into the order.
func NewOrder(cart *Cart, shipping ShippingDetails) Order {
	return Order{
		ID:          uuid.New(),
		Lines:       cart.Lines(),
		Shipping:    shipping,
		Total:       cart.ComputeTotalValue(),
		SubmittedAt: time.Now().UTC(),
	}
}

// OrderSubmittedEvent is published after an order has been dispatched.
type OrderSubmittedEvent struct {
	EventType string           `json:"event_type"`
	OrderID   string           `json:"order_id"`
	Items     []OrderEventItem `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	Country   string           `json:"country"`
	GiftWrap  bool             `json:"gift_wrap"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

const EventOrderSubmitted = "order_submitted"
