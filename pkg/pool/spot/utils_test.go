package spot

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToUnsignedTick(t *testing.T) {
	assert.Equal(t, uint32(100), ToUnsignedTick(100))
	assert.Equal(t, uint32(4294967196), ToUnsignedTick(-100))
}

func TestGetPercentageAmount(t *testing.T) {
	amount := decimal.NewFromInt(2000)
	pct := decimal.RequireFromString("0.01")
	assert.True(t, GetPercentageAmount(amount, pct, true).Equal(decimal.NewFromInt(2020)))
	assert.True(t, GetPercentageAmount(amount, pct, false).Equal(decimal.NewFromInt(1980)))
}

func TestGetEstimatedAmountIncludingSlippage(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	slippage := decimal.RequireFromString("0.5")
	assert.True(t, GetEstimatedAmountIncludingSlippage(amount, slippage, true).Equal(decimal.NewFromInt(995)))
	assert.True(t, GetEstimatedAmountIncludingSlippage(amount, slippage, false).Equal(decimal.NewFromInt(1005)))
}
