package clmm

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

var two128Dec = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)

// PriceToSqrtPriceX64 converts a human price (coin B per coin A) into a Q64.64 sqrt price,
// scaling by the coin decimals. The result is floored.
func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) (cosmath.Int, error) {
	if !price.IsPositive() {
		return cosmath.Int{}, newError(InvalidSqrtPrice, "price %s must be positive", price)
	}
	raw := price.Mul(decimal.New(1, int32(decimalsB)-int32(decimalsA)))
	// floor(sqrt(raw) * 2^64) == isqrt(floor(raw * 2^128))
	radicand := raw.Mul(two128Dec).Floor().BigInt()
	sp := cosmath.NewIntFromBigInt(new(big.Int).Sqrt(radicand))
	if sp.LT(MinSqrtPrice) || sp.GT(MaxSqrtPrice) {
		return cosmath.Int{}, newError(InvalidSqrtPrice, "price %s maps outside the sqrt price range", price)
	}
	return sp, nil
}

// SqrtPriceX64ToPrice converts a Q64.64 sqrt price into a human price (coin B per coin A).
func SqrtPriceX64ToPrice(sqrtPrice cosmath.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	if _, err := toU256(sqrtPrice, InvalidSqrtPrice, "sqrt price"); err != nil {
		return decimal.Decimal{}, err
	}
	root := FromX64(sqrtPrice)
	return root.Mul(root).Mul(decimal.New(1, int32(decimalsA)-int32(decimalsB))), nil
}

// TickIndexToPrice returns the human price at tick.
func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sp, err := TickIndexToSqrtPriceX64(tick)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return SqrtPriceX64ToPrice(sp, decimalsA, decimalsB)
}

// PriceToTickIndex returns the greatest tick whose price does not exceed price.
func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sp, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return SqrtPriceX64ToTickIndex(sp)
}

// PriceToInitializableTickIndex returns the tick for price snapped onto the spacing grid.
func PriceToInitializableTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8, tickSpacing uint16) (int32, error) {
	tick, err := PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return GetInitializableTickIndex(tick, tickSpacing)
}
