package services_test

import (
	"math"
	"testing"

	"wtch/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_NoPromo(t *testing.T) {
	totals, err := services.ComputeTotals([]services.Line{{Price: 50000, Quantity: 2}}, decimal.Zero, 10000)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(10000), totals.DeliveryFee)
	assert.Equal(t, int64(110000), totals.Total)
}

func TestComputeTotals_TenPercentPromo(t *testing.T) {
	totals, err := services.ComputeTotals([]services.Line{{Price: 50000, Quantity: 2}}, decimal.RequireFromString("0.10"), 10000)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), totals.Discount)
	assert.Equal(t, int64(100000), totals.Total)
}

func TestComputeTotals_EmptyCartHasNoDeliveryFee(t *testing.T) {
	totals, err := services.ComputeTotals(nil, decimal.RequireFromString("0.10"), 10000)
	require.NoError(t, err)

	assert.Equal(t, int64(0), totals.Total)
	assert.Equal(t, int64(0), totals.DeliveryFee)
	assert.Equal(t, int64(0), totals.Subtotal)
}

func TestComputeTotals_DiscountRoundsHalfUp(t *testing.T) {
	rate := decimal.RequireFromString("0.10")

	// 10% of 125 is 12.5, which rounds up to 13.
	totals, err := services.ComputeTotals([]services.Line{{Price: 125, Quantity: 1}}, rate, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(13), totals.Discount)
	assert.Equal(t, int64(112), totals.Total)

	// 10% of 124 is 12.4, which rounds down to 12.
	totals, err = services.ComputeTotals([]services.Line{{Price: 124, Quantity: 1}}, rate, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), totals.Discount)

	// 14.5 rounds to 15, not to the even 14.
	totals, err = services.ComputeTotals([]services.Line{{Price: 145, Quantity: 1}}, rate, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), totals.Discount)
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	totals, err := services.ComputeTotals([]services.Line{
		{Price: 1200, Quantity: 3},
		{Price: 750, Quantity: 1},
	}, decimal.Zero, 500)
	require.NoError(t, err)

	assert.Equal(t, int64(4350), totals.Subtotal)
	assert.Equal(t, int64(4850), totals.Total)
}

func TestComputeTotals_RejectsAmountsBeyondInt64(t *testing.T) {
	tests := []struct {
		name  string
		lines []services.Line
		fee   int64
	}{
		{"line product overflows", []services.Line{{Price: math.MaxInt64 / 2, Quantity: 3}}, 0},
		{"lines sum overflows", []services.Line{{Price: math.MaxInt64, Quantity: 1}, {Price: 1, Quantity: 1}}, 0},
		{"delivery fee overflows", []services.Line{{Price: math.MaxInt64, Quantity: 1}}, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.ComputeTotals(tt.lines, decimal.Zero, tt.fee)
			assert.ErrorIs(t, err, services.ErrAmountTooLarge)
		})
	}

	totals, err := services.ComputeTotals([]services.Line{{Price: math.MaxInt64, Quantity: 1}}, decimal.Zero, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), totals.Total)
}
