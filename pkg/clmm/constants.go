package clmm

import (
	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

const (
	MinTickIndex int32 = -443636
	MaxTickIndex int32 = 443636

	FeeRateDenominator uint64 = 1_000_000

	// TickArraySize is the number of ticks stored in one on-chain tick array.
	TickArraySize int32 = 64
)

var (
	MinSqrtPrice = cosmath.NewIntFromUint64(4295048016)
	MaxSqrtPrice = mustInt("79226673515401279992447579055")

	U64Max  = mustInt("18446744073709551615")
	U128Max = mustInt("340282366920938463463374607431768211455")
)

var (
	minSqrtPriceU = uint256.NewInt(4295048016)
	maxSqrtPriceU = uint256.MustFromDecimal("79226673515401279992447579055")
	feeDenomU     = uint256.NewInt(FeeRateDenominator)
	u64MaxU       = uint256.NewInt(^uint64(0))
	q64U          = new(uint256.Int).Lsh(uint256.NewInt(1), 64)
)

func mustInt(s string) cosmath.Int {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		panic("clmm: bad integer constant " + s)
	}
	return v
}
