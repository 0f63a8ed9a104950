package clmm

import (
	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// GetDefaultSqrtPriceLimit returns the furthest sqrt price a swap may reach in its direction.
func GetDefaultSqrtPriceLimit(a2b bool) cosmath.Int {
	if a2b {
		return MinSqrtPrice
	}
	return MaxSqrtPrice
}

// GetDefaultOtherAmountThreshold returns the no-op slippage threshold: zero
// minimum output for exact-input swaps, u64 max input for exact-output swaps.
func GetDefaultOtherAmountThreshold(byAmountIn bool) cosmath.Int {
	if byAmountIn {
		return cosmath.ZeroInt()
	}
	return U64Max
}

func coinPriceArgs(amount, liquidity, sqrtPrice cosmath.Int) (amt, l, sp *uint256.Int, err error) {
	if amt, err = amountArg(amount, "amount"); err != nil {
		return
	}
	if l, err = liquidityArg(liquidity); err != nil {
		return
	}
	sp, err = sqrtPriceArg(sqrtPrice, "sqrt price")
	return
}

func coinPrice(amount, liquidity, sqrtPrice cosmath.Int, f func(sp, l, amt *uint256.Int) (*uint256.Int, error)) (cosmath.Int, error) {
	amt, l, sp, err := coinPriceArgs(amount, liquidity, sqrtPrice)
	if err != nil {
		return cosmath.Int{}, err
	}
	z, err := f(sp, l, amt)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(z), nil
}

// GetLowerSqrtPriceFromCoinA returns the sqrt price after amount of coin A is added. Rounds up.
func GetLowerSqrtPriceFromCoinA(amount, liquidity, sqrtPrice cosmath.Int) (cosmath.Int, error) {
	return coinPrice(amount, liquidity, sqrtPrice, func(sp, l, amt *uint256.Int) (*uint256.Int, error) {
		return sqrtPriceFromCoinA(sp, l, amt, true)
	})
}

// GetUpperSqrtPriceFromCoinA returns the sqrt price after amount of coin A is removed. Rounds up.
func GetUpperSqrtPriceFromCoinA(amount, liquidity, sqrtPrice cosmath.Int) (cosmath.Int, error) {
	return coinPrice(amount, liquidity, sqrtPrice, func(sp, l, amt *uint256.Int) (*uint256.Int, error) {
		return sqrtPriceFromCoinA(sp, l, amt, false)
	})
}

// GetLowerSqrtPriceFromCoinB returns the sqrt price after amount of coin B is removed. Rounds down.
func GetLowerSqrtPriceFromCoinB(amount, liquidity, sqrtPrice cosmath.Int) (cosmath.Int, error) {
	return coinPrice(amount, liquidity, sqrtPrice, func(sp, l, amt *uint256.Int) (*uint256.Int, error) {
		return sqrtPriceFromCoinB(sp, l, amt, false)
	})
}

// GetUpperSqrtPriceFromCoinB returns the sqrt price after amount of coin B is added. Rounds down.
func GetUpperSqrtPriceFromCoinB(amount, liquidity, sqrtPrice cosmath.Int) (cosmath.Int, error) {
	return coinPrice(amount, liquidity, sqrtPrice, func(sp, l, amt *uint256.Int) (*uint256.Int, error) {
		return sqrtPriceFromCoinB(sp, l, amt, true)
	})
}
