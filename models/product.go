package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry.
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category" gorm:"size:50;index" validate:"max=50"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null;default:0" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SameAs reports whether two products share an identity.
func (p Product) SameAs(other Product) bool {
	return p.ID == other.ID
}
