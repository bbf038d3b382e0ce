package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Line is one priced cart line.
type Line struct {
	Price    int64
	Quantity int
}

// Totals is the price breakdown of a cart. Amounts are whole currency units.
type Totals struct {
	Subtotal     int64           `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     int64           `json:"discount"`
	DeliveryFee  int64           `json:"delivery_fee"`
	Total        int64           `json:"total"`
	PromoCode    string          `json:"promo_code,omitempty"`
	// UnavailableItems counts lines left out because their product was removed.
	UnavailableItems int `json:"unavailable_items,omitempty"`
}

// ComputeTotals prices a cart. The discount is subtotal*rate rounded half-up to a whole unit;
// the delivery fee applies only to a non-empty cart. Amounts that do not fit an int64 fail
// with ErrAmountTooLarge.
func ComputeTotals(lines []Line, rate decimal.Decimal, deliveryFee int64) (Totals, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if subtotal.GreaterThan(maxAmount) {
		return Totals{}, ErrAmountTooLarge
	}

	t := Totals{Subtotal: subtotal.IntPart(), DiscountRate: rate}
	if len(lines) == 0 {
		return t, nil
	}

	// Round is half away from zero, which is half-up for non-negative amounts.
	discount := subtotal.Mul(rate).Round(0)
	total := subtotal.Sub(discount).Add(decimal.NewFromInt(deliveryFee))
	if total.GreaterThan(maxAmount) {
		return Totals{}, ErrAmountTooLarge
	}
	t.Discount = discount.IntPart()
	t.DeliveryFee = deliveryFee
	t.Total = total.IntPart()
	return t, nil
}
