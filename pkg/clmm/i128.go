package clmm

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Upper = new(big.Int).Lsh(big.NewInt(1), 127)
	i128Lower = new(big.Int).Neg(i128Upper)
)

// ToU64 downcasts x to u64.
func ToU64(x cosmath.Int) (uint64, error) {
	if x.IsNil() || x.IsNegative() || !x.IsUint64() {
		return 0, newError(IntegerDowncastOverflow, "%s does not fit in u64", x)
	}
	return x.Uint64(), nil
}

// ToU128 downcasts x to u128.
func ToU128(x cosmath.Int) (uint128.Uint128, error) {
	if x.IsNil() || IsOverflow(x, 128) {
		return uint128.Zero, newError(IntegerDowncastOverflow, "%s does not fit in u128", x)
	}
	return uint128.FromBig(x.BigInt()), nil
}

// I128FromBits decodes a two's-complement i128 as it is stored on chain.
func I128FromBits(bits uint128.Uint128) cosmath.Int {
	v := bits.Big()
	if v.Cmp(i128Upper) >= 0 {
		v.Sub(v, two128)
	}
	return cosmath.NewIntFromBigInt(v)
}

// I128ToBits encodes x as a two's-complement i128.
func I128ToBits(x cosmath.Int) (uint128.Uint128, error) {
	if x.IsNil() {
		return uint128.Zero, newError(IntegerDowncastOverflow, "i128 value is not set")
	}
	v := x.BigInt()
	if v.Cmp(i128Lower) < 0 || v.Cmp(i128Upper) >= 0 {
		return uint128.Zero, newError(IntegerDowncastOverflow, "%s does not fit in i128", x)
	}
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	return uint128.FromBig(v), nil
}

// I32FromBits decodes a tick index stored as u32 bits.
func I32FromBits(bits uint32) int32 {
	return int32(bits)
}

// I32ToBits encodes a tick index as u32 bits.
func I32ToBits(tick int32) uint32 {
	return uint32(tick)
}

// SubUnderflowU128 returns a-b wrapped modulo 2^128.
func SubUnderflowU128(a, b cosmath.Int) (cosmath.Int, error) {
	x, err := ToU128(a)
	if err != nil {
		return cosmath.Int{}, err
	}
	y, err := ToU128(b)
	if err != nil {
		return cosmath.Int{}, err
	}
	return cosmath.NewIntFromBigInt(x.SubWrap(y).Big()), nil
}
