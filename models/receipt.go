package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ChannelEmail = "email"
	ChannelFile  = "file"
	ChannelS3    = "s3"

	ReceiptSent   = "sent"
	ReceiptFailed = "failed"
)

// OrderReceipt records how an order confirmation was dispatched.
type OrderReceipt struct {
	ID        int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   string          `json:"order_id" gorm:"size:36;index"`
	Recipient string          `json:"recipient"`
	Channel   string          `json:"channel" gorm:"size:16"`
	Status    string          `json:"status" gorm:"size:16;index"`
	MessageID string          `json:"message_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Total     decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

type ReceiptFilter struct {
	Status   string
	Page     int
	PageSize int
}
