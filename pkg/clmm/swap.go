package clmm

import (
	"sort"

	cosmath "cosmossdk.io/math"
)

// PoolData is the pool state a multi-tick swap starts from.
type PoolData struct {
	CurrentSqrtPrice cosmath.Int
	CurrentTickIndex int32
	Liquidity        cosmath.Int
	FeeRate          uint64
}

// TickData is an initialized tick. SqrtPrice may be left unset, in which case
// it is derived from Index.
type TickData struct {
	Index        int32
	SqrtPrice    cosmath.Int
	LiquidityNet cosmath.Int
}

// SwapParams describes a requested swap. A nil SqrtPriceLimit selects the
// default limit for the direction.
type SwapParams struct {
	A2B            bool
	ByAmountIn     bool
	Amount         cosmath.Int
	SqrtPriceLimit cosmath.Int
}

// SwapResult aggregates every step of a multi-tick swap. AmountIn includes FeeAmount.
type SwapResult struct {
	AmountIn      cosmath.Int `json:"amount_in"`
	AmountOut     cosmath.Int `json:"amount_out"`
	FeeAmount     cosmath.Int `json:"fee_amount"`
	RefAmount     cosmath.Int `json:"ref_amount"`
	NextSqrtPrice cosmath.Int `json:"next_sqrt_price"`
	CrossTickNum  int         `json:"cross_tick_num"`
	IsExceed      bool        `json:"is_exceed"`
}

// ComputeSwap walks the initialized ticks in swap direction, running one
// ComputeSwapStep per segment and crossing liquidity at each tick reached.
// It stops once the amount is consumed, the price limit is reached, or the
// ticks run out; IsExceed reports an amount that was not fully consumed.
func ComputeSwap(params SwapParams, pool PoolData, ticks []TickData) (SwapResult, error) {
	if _, err := amountArg(params.Amount, "amount"); err != nil {
		return SwapResult{}, err
	}
	if params.Amount.IsZero() {
		return SwapResult{}, newError(ZeroTradableAmount, "swap amount is zero")
	}
	currentSqrtPrice := pool.CurrentSqrtPrice
	if _, err := sqrtPriceArg(currentSqrtPrice, "current sqrt price"); err != nil {
		return SwapResult{}, err
	}
	liquidity := pool.Liquidity
	if _, err := liquidityArg(liquidity); err != nil {
		return SwapResult{}, err
	}

	limit := params.SqrtPriceLimit
	if limit.IsNil() {
		limit = GetDefaultSqrtPriceLimit(params.A2B)
	}
	if _, err := sqrtPriceArg(limit, "sqrt price limit"); err != nil {
		return SwapResult{}, err
	}
	if (params.A2B && limit.GT(currentSqrtPrice)) || (!params.A2B && limit.LT(currentSqrtPrice)) {
		return SwapResult{}, newError(InvalidSqrtPriceLimitDirection,
			"limit %s is on the wrong side of current sqrt price %s", limit, currentSqrtPrice)
	}

	swapTicks, err := orderSwapTicks(ticks, params.A2B)
	if err != nil {
		return SwapResult{}, err
	}

	result := SwapResult{
		AmountIn:  cosmath.ZeroInt(),
		AmountOut: cosmath.ZeroInt(),
		FeeAmount: cosmath.ZeroInt(),
		RefAmount: cosmath.ZeroInt(),
	}
	remaining := params.Amount
	for _, tick := range swapTicks {
		if params.A2B && pool.CurrentTickIndex < tick.Index {
			continue
		}
		if !params.A2B && pool.CurrentTickIndex >= tick.Index {
			continue
		}

		target := tick.SqrtPrice
		if (params.A2B && limit.GT(tick.SqrtPrice)) || (!params.A2B && limit.LT(tick.SqrtPrice)) {
			target = limit
		}

		step, err := ComputeSwapStep(currentSqrtPrice, target, liquidity, remaining, pool.FeeRate, params.ByAmountIn)
		if err != nil {
			return SwapResult{}, err
		}
		// a dust step moves no input but its fee still consumes the remainder
		if params.ByAmountIn {
			remaining = remaining.Sub(step.AmountIn.Add(step.FeeAmount))
		} else {
			remaining = remaining.Sub(step.AmountOut)
		}
		result.AmountIn = result.AmountIn.Add(step.AmountIn)
		result.AmountOut = result.AmountOut.Add(step.AmountOut)
		result.FeeAmount = result.FeeAmount.Add(step.FeeAmount)

		if step.NextSqrtPrice.Equal(tick.SqrtPrice) {
			if params.A2B {
				liquidity = liquidity.Sub(tick.LiquidityNet)
			} else {
				liquidity = liquidity.Add(tick.LiquidityNet)
			}
			if liquidity.IsNegative() {
				return SwapResult{}, newError(UnsignedIntegerOverflow,
					"liquidity underflows crossing tick %d", tick.Index)
			}
			currentSqrtPrice = tick.SqrtPrice
		} else {
			currentSqrtPrice = step.NextSqrtPrice
		}
		result.CrossTickNum++

		if remaining.IsZero() || currentSqrtPrice.Equal(limit) {
			break
		}
	}

	result.AmountIn = result.AmountIn.Add(result.FeeAmount)
	result.NextSqrtPrice = currentSqrtPrice
	result.IsExceed = remaining.IsPositive()
	return result, nil
}

func orderSwapTicks(ticks []TickData, a2b bool) ([]TickData, error) {
	ordered := make([]TickData, 0, len(ticks))
	for _, t := range ticks {
		if err := checkTickIndex(t.Index); err != nil {
			return nil, err
		}
		if t.SqrtPrice.IsNil() {
			sp, err := TickIndexToSqrtPriceX64(t.Index)
			if err != nil {
				return nil, err
			}
			t.SqrtPrice = sp
		}
		if t.LiquidityNet.IsNil() {
			t.LiquidityNet = cosmath.ZeroInt()
		}
		ordered = append(ordered, t)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if a2b {
			return ordered[i].Index > ordered[j].Index
		}
		return ordered[i].Index < ordered[j].Index
	})
	return ordered, nil
}
