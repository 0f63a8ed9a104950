package clmm

import (
	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// deltaA is liquidity * |p0 - p1| * 2^64 / (p0 * p1) at full width.
func deltaA(p0, p1, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	diff := absDiff(p0, p1)
	if diff.IsZero() || liquidity.IsZero() {
		return new(uint256.Int), nil
	}
	numerator, err := mulShiftLeft(liquidity, diff, 64, 256)
	if err != nil {
		// reported under the on-chain abort code for this formula
		return nil, newError(MultiplicationOverflow, "delta a numerator: %v", err)
	}
	denominator, err := checkedMul(p0, p1, 256)
	if err != nil {
		return nil, err
	}
	return divRoundUp(numerator, denominator, roundUp)
}

// deltaB is (liquidity * |p0 - p1|) >> 64 at full width.
func deltaB(p0, p1, liquidity *uint256.Int, roundUp bool) (*uint256.Int, error) {
	diff := absDiff(p0, p1)
	if diff.IsZero() || liquidity.IsZero() {
		return new(uint256.Int), nil
	}
	return mulShiftRight64RoundUpIf(liquidity, diff, 256, roundUp)
}

func pricePairArgs(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int) (p0, p1, l *uint256.Int, err error) {
	if p0, err = sqrtPriceArg(sqrtPrice0, "sqrt price 0"); err != nil {
		return
	}
	if p1, err = sqrtPriceArg(sqrtPrice1, "sqrt price 1"); err != nil {
		return
	}
	l, err = liquidityArg(liquidity)
	return
}

func downcastU64(v *uint256.Int, what string) (cosmath.Int, error) {
	if isOverflow(v, 64) {
		return cosmath.Int{}, newError(IntegerDowncastOverflow, "%s %s exceeds u64", what, v.Dec())
	}
	return fromU256(v), nil
}

// GetDeltaA returns the amount of coin A between two sqrt prices for the given liquidity.
// The formula is delta_a = liquidity * delta_sqrt_price / (sqrt_price_upper * sqrt_price_lower).
func GetDeltaA(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	p0, p1, l, err := pricePairArgs(sqrtPrice0, sqrtPrice1, liquidity)
	if err != nil {
		return cosmath.Int{}, err
	}
	d, err := deltaA(p0, p1, l, roundUp)
	if err != nil {
		return cosmath.Int{}, err
	}
	return downcastU64(d, "delta a")
}

// GetDeltaB returns the amount of coin B between two sqrt prices for the given liquidity.
// The formula is delta_b = liquidity * delta_sqrt_price.
func GetDeltaB(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	p0, p1, l, err := pricePairArgs(sqrtPrice0, sqrtPrice1, liquidity)
	if err != nil {
		return cosmath.Int{}, err
	}
	d, err := deltaB(p0, p1, l, roundUp)
	if err != nil {
		return cosmath.Int{}, err
	}
	return downcastU64(d, "delta b")
}

// sqrtPriceFromCoinA is (sqrt_price * liquidity) / (liquidity +/- amount * sqrt_price),
// always rounded up, without bounding the result.
func sqrtPriceFromCoinA(sqrtPrice, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	numerator, err := mulShiftLeft(sqrtPrice, liquidity, 64, 256)
	if err != nil {
		return nil, err
	}
	liquidityShl64 := new(uint256.Int).Lsh(liquidity, 64)
	product, err := checkedMul(sqrtPrice, amount, 256)
	if err != nil {
		return nil, err
	}
	var denominator *uint256.Int
	if add {
		var overflow bool
		if denominator, overflow = new(uint256.Int).AddOverflow(liquidityShl64, product); overflow {
			return nil, newError(MultiplicationOverflow, "liquidity << 64 + amount * sqrt price exceeds 256 bits")
		}
	} else {
		if !liquidityShl64.Gt(product) {
			return nil, newError(DivideByZero, "liquidity << 64 does not exceed amount * sqrt price")
		}
		denominator = new(uint256.Int).Sub(liquidityShl64, product)
	}
	return divRoundUp(numerator, denominator, true)
}

// sqrtPriceFromCoinB is sqrt_price +/- (amount << 64) / liquidity. The delta
// is rounded up when subtracting so the price always moves against the trader.
func sqrtPriceFromCoinB(sqrtPrice, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if isOverflow(amount, 192) {
		return nil, newError(MulShiftLeftOverflow, "amount %s << 64 exceeds 256 bits", amount.Dec())
	}
	delta, err := divRoundUp(new(uint256.Int).Lsh(amount, 64), liquidity, !add)
	if err != nil {
		return nil, err
	}
	if add {
		next, overflow := new(uint256.Int).AddOverflow(sqrtPrice, delta)
		if overflow {
			return nil, newError(SqrtPriceOutOfBounds, "sqrt price overflows")
		}
		return next, nil
	}
	if delta.Gt(sqrtPrice) {
		return nil, newError(SqrtPriceOutOfBounds, "sqrt price %s minus %s underflows", sqrtPrice.Dec(), delta.Dec())
	}
	return new(uint256.Int).Sub(sqrtPrice, delta), nil
}

func nextSqrtPriceAUp(sqrtPrice, liquidity, amount *uint256.Int, byAmountIn bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int).Set(sqrtPrice), nil
	}
	next, err := sqrtPriceFromCoinA(sqrtPrice, liquidity, amount, byAmountIn)
	if err != nil {
		return nil, err
	}
	if next.Lt(minSqrtPriceU) {
		return nil, newError(CoinAmountMinSubceeded, "next sqrt price %s is below the minimum", next.Dec())
	}
	if next.Gt(maxSqrtPriceU) {
		return nil, newError(CoinAmountMaxExceeded, "next sqrt price %s is above the maximum", next.Dec())
	}
	return next, nil
}

func nextSqrtPriceBDown(sqrtPrice, liquidity, amount *uint256.Int, byAmountIn bool) (*uint256.Int, error) {
	next, err := sqrtPriceFromCoinB(sqrtPrice, liquidity, amount, byAmountIn)
	if err != nil {
		return nil, err
	}
	if next.Lt(minSqrtPriceU) || next.Gt(maxSqrtPriceU) {
		return nil, newError(SqrtPriceOutOfBounds, "next sqrt price %s is out of bounds", next.Dec())
	}
	return next, nil
}

func nextSqrtPriceFromInput(sqrtPrice, liquidity, amount *uint256.Int, a2b bool) (*uint256.Int, error) {
	if a2b {
		return nextSqrtPriceAUp(sqrtPrice, liquidity, amount, true)
	}
	return nextSqrtPriceBDown(sqrtPrice, liquidity, amount, true)
}

func nextSqrtPriceFromOutput(sqrtPrice, liquidity, amount *uint256.Int, a2b bool) (*uint256.Int, error) {
	if a2b {
		return nextSqrtPriceBDown(sqrtPrice, liquidity, amount, false)
	}
	return nextSqrtPriceAUp(sqrtPrice, liquidity, amount, false)
}

// deltaUpFromInput is the input needed to move from current to target, rounded up.
func deltaUpFromInput(current, target, liquidity *uint256.Int, a2b bool) (*uint256.Int, error) {
	if a2b {
		return deltaA(current, target, liquidity, true)
	}
	return deltaB(current, target, liquidity, true)
}

// deltaDownFromOutput is the output released moving from current to target, rounded down.
func deltaDownFromOutput(current, target, liquidity *uint256.Int, a2b bool) (*uint256.Int, error) {
	if a2b {
		return deltaB(current, target, liquidity, false)
	}
	return deltaA(current, target, liquidity, false)
}

func nextPriceArgs(sqrtPrice, liquidity, amount cosmath.Int) (sp, l, amt *uint256.Int, err error) {
	if sp, err = sqrtPriceArg(sqrtPrice, "sqrt price"); err != nil {
		return
	}
	if l, err = liquidityArg(liquidity); err != nil {
		return
	}
	amt, err = amountArg(amount, "amount")
	return
}

type nextPriceFunc func(sp, l, amt *uint256.Int, flag bool) (*uint256.Int, error)

func applyNextPrice(sqrtPrice, liquidity, amount cosmath.Int, flag bool, f nextPriceFunc) (cosmath.Int, error) {
	sp, l, amt, err := nextPriceArgs(sqrtPrice, liquidity, amount)
	if err != nil {
		return cosmath.Int{}, err
	}
	next, err := f(sp, l, amt, flag)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(next), nil
}

// GetNextSqrtPriceAUp returns the sqrt price after amount of coin A enters
// (byAmountIn) or leaves the pool.
func GetNextSqrtPriceAUp(sqrtPrice, liquidity, amount cosmath.Int, byAmountIn bool) (cosmath.Int, error) {
	return applyNextPrice(sqrtPrice, liquidity, amount, byAmountIn, nextSqrtPriceAUp)
}

// GetNextSqrtPriceBDown returns the sqrt price after amount of coin B enters
// (byAmountIn) or leaves the pool.
func GetNextSqrtPriceBDown(sqrtPrice, liquidity, amount cosmath.Int, byAmountIn bool) (cosmath.Int, error) {
	return applyNextPrice(sqrtPrice, liquidity, amount, byAmountIn, nextSqrtPriceBDown)
}

// GetNextSqrtPriceFromInput picks the coin A formula for a2b swaps and the coin B formula otherwise.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amount cosmath.Int, a2b bool) (cosmath.Int, error) {
	return applyNextPrice(sqrtPrice, liquidity, amount, a2b, nextSqrtPriceFromInput)
}

// GetNextSqrtPriceFromOutput picks the coin B formula for a2b swaps and the coin A formula otherwise.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amount cosmath.Int, a2b bool) (cosmath.Int, error) {
	return applyNextPrice(sqrtPrice, liquidity, amount, a2b, nextSqrtPriceFromOutput)
}

func applyDelta(current, target, liquidity cosmath.Int, a2b bool, f func(c, t, l *uint256.Int, a2b bool) (*uint256.Int, error)) (cosmath.Int, error) {
	c, t, l, err := pricePairArgs(current, target, liquidity)
	if err != nil {
		return cosmath.Int{}, err
	}
	d, err := f(c, t, l, a2b)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(d), nil
}

// GetDeltaUpFromInput returns the input amount, rounded up, that moves the
// price from current to target.
func GetDeltaUpFromInput(currentSqrtPrice, targetSqrtPrice, liquidity cosmath.Int, a2b bool) (cosmath.Int, error) {
	return applyDelta(currentSqrtPrice, targetSqrtPrice, liquidity, a2b, deltaUpFromInput)
}

// GetDeltaDownFromOutput returns the output amount, rounded down, released
// when the price moves from current to target.
func GetDeltaDownFromOutput(currentSqrtPrice, targetSqrtPrice, liquidity cosmath.Int, a2b bool) (cosmath.Int, error) {
	return applyDelta(currentSqrtPrice, targetSqrtPrice, liquidity, a2b, deltaDownFromOutput)
}
