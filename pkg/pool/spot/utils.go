package spot

import (
	"github.com/shopspring/decimal"
	"github.com/yimingwow/clmm/pkg/clmm"
)

var hundred = decimal.NewFromInt(100)

// ToUnsignedTick returns the u32 bits of a tick index.
func ToUnsignedTick(tick int32) uint32 {
	return clmm.I32ToBits(tick)
}

// GetPercentageAmount scales amount by (1 + percentage) when upside is set and
// by (1 - percentage) otherwise. percentage is a fraction.
func GetPercentageAmount(amount, percentage decimal.Decimal, upside bool) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if upside {
		return amount.Mul(one.Add(percentage))
	}
	return amount.Mul(one.Sub(percentage))
}

// GetEstimatedAmountIncludingSlippage returns the other-amount threshold for a
// swap. slippage is in percent: the expected output is lowered for exact-input
// swaps and the expected input is raised for exact-output swaps.
func GetEstimatedAmountIncludingSlippage(amount, slippage decimal.Decimal, byAmountIn bool) decimal.Decimal {
	delta := amount.Mul(slippage.Div(hundred))
	if byAmountIn {
		return amount.Sub(delta)
	}
	return amount.Add(delta)
}
