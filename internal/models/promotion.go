package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion maps a promo code to a discount rate in [0, 1].
type Promotion struct {
	Code         string          `json:"code" gorm:"primaryKey;type:varchar(32)"`
	DiscountRate decimal.Decimal `json:"discount_rate" gorm:"type:numeric(5,4);not null"`
	Active       bool            `json:"active" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
