package clmm

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Working-width helpers. Every intermediate lives in 256 bits, and the
// declared width is only enforced on the value handed back to the caller.

func isOverflow(n *uint256.Int, bits uint) bool {
	return bits < 256 && uint(n.BitLen()) > bits
}

func checkedMul(a, b *uint256.Int, maxBits uint) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || isOverflow(z, maxBits) {
		return nil, newError(MultiplicationOverflow, "%s * %s exceeds %d bits", a.Dec(), b.Dec(), maxBits)
	}
	return z, nil
}

func mulShiftLeft(a, b *uint256.Int, shift, maxBits uint) (*uint256.Int, error) {
	p, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || uint(p.BitLen())+shift > 256 {
		return nil, newError(MulShiftLeftOverflow, "(%s * %s) << %d exceeds 256 bits", a.Dec(), b.Dec(), shift)
	}
	p.Lsh(p, shift)
	if isOverflow(p, maxBits) {
		return nil, newError(MulShiftLeftOverflow, "(%s * %s) << %d exceeds %d bits", a.Dec(), b.Dec(), shift, maxBits)
	}
	return p, nil
}

func mulShiftRight(a, b *uint256.Int, shift, maxBits uint) (*uint256.Int, error) {
	p, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, newError(MulShiftRightOverflow, "%s * %s exceeds 256 bits", a.Dec(), b.Dec())
	}
	p.Rsh(p, shift)
	if isOverflow(p, maxBits) {
		return nil, newError(MulShiftRightOverflow, "(%s * %s) >> %d exceeds %d bits", a.Dec(), b.Dec(), shift, maxBits)
	}
	return p, nil
}

func mulShiftRight64RoundUpIf(a, b *uint256.Int, maxBits uint, roundUp bool) (*uint256.Int, error) {
	p, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, newError(MulShiftRightOverflow, "%s * %s exceeds 256 bits", a.Dec(), b.Dec())
	}
	lowBits := new(uint256.Int).And(p, u64MaxU)
	p.Rsh(p, 64)
	if roundUp && !lowBits.IsZero() {
		p.AddUint64(p, 1)
	}
	if isOverflow(p, maxBits) {
		return nil, newError(MulShiftRightOverflow, "(%s * %s) >> 64 exceeds %d bits", a.Dec(), b.Dec(), maxBits)
	}
	return p, nil
}

func mulDivFloor(a, b, denom *uint256.Int, maxBits uint) (*uint256.Int, error) {
	if denom.IsZero() {
		return nil, newError(DivideByZero, "mul-div by zero")
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, denom)
	if overflow || isOverflow(z, maxBits) {
		return nil, newError(MulDivOverflow, "%s * %s / %s exceeds %d bits", a.Dec(), b.Dec(), denom.Dec(), maxBits)
	}
	return z, nil
}

func mulDivCeil(a, b, denom *uint256.Int, maxBits uint) (*uint256.Int, error) {
	z, err := mulDivFloor(a, b, denom, 256)
	if err != nil {
		return nil, err
	}
	if !new(uint256.Int).MulMod(a, b, denom).IsZero() {
		if _, overflow := z.AddOverflow(z, uint256.NewInt(1)); overflow {
			return nil, newError(MulDivOverflow, "%s * %s / %s exceeds 256 bits", a.Dec(), b.Dec(), denom.Dec())
		}
	}
	if isOverflow(z, maxBits) {
		return nil, newError(MulDivOverflow, "%s * %s / %s exceeds %d bits", a.Dec(), b.Dec(), denom.Dec(), maxBits)
	}
	return z, nil
}

func mulDivRound(a, b, denom *uint256.Int, maxBits uint) (*uint256.Int, error) {
	z, err := mulDivFloor(a, b, denom, 256)
	if err != nil {
		return nil, err
	}
	rem := new(uint256.Int).MulMod(a, b, denom)
	half := new(uint256.Int).Rsh(denom, 1)
	// (a*b + denom/2) / denom rounds up exactly when rem >= denom - denom/2
	if !rem.Lt(new(uint256.Int).Sub(denom, half)) {
		if _, overflow := z.AddOverflow(z, uint256.NewInt(1)); overflow {
			return nil, newError(MulDivOverflow, "%s * %s / %s exceeds 256 bits", a.Dec(), b.Dec(), denom.Dec())
		}
	}
	if isOverflow(z, maxBits) {
		return nil, newError(MulDivOverflow, "%s * %s / %s exceeds %d bits", a.Dec(), b.Dec(), denom.Dec(), maxBits)
	}
	return z, nil
}

func divRoundUp(num, denom *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if denom.IsZero() {
		return nil, newError(DivideByZero, "%s / 0", num.Dec())
	}
	q, r := new(uint256.Int).DivMod(num, denom, new(uint256.Int))
	if roundUp && !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q, nil
}

func checkedSub(a, b *uint256.Int) (*uint256.Int, error) {
	if b.Gt(a) {
		return nil, newError(UnsignedIntegerOverflow, "%s - %s underflows", a.Dec(), b.Dec())
	}
	return new(uint256.Int).Sub(a, b), nil
}

func absDiff(a, b *uint256.Int) *uint256.Int {
	if a.Gt(b) {
		return new(uint256.Int).Sub(a, b)
	}
	return new(uint256.Int).Sub(b, a)
}

// Boundary conversions between the caller-facing Int and the working width.

func toU256(x cosmath.Int, code ErrorCode, name string) (*uint256.Int, error) {
	if x.IsNil() {
		return nil, newError(code, "%s is not set", name)
	}
	if x.IsNegative() {
		return nil, newError(code, "%s is negative: %s", name, x)
	}
	z, overflow := uint256.FromBig(x.BigInt())
	if overflow {
		return nil, newError(code, "%s exceeds 256 bits", name)
	}
	return z, nil
}

func fromU256(z *uint256.Int) cosmath.Int {
	return cosmath.NewIntFromBigInt(z.ToBig())
}

func operandArg(x cosmath.Int, name string) (*uint256.Int, error) {
	return toU256(x, UnsignedIntegerOverflow, name)
}

func amountArg(x cosmath.Int, name string) (*uint256.Int, error) {
	z, err := toU256(x, InvalidCoinAmount, name)
	if err != nil {
		return nil, err
	}
	if isOverflow(z, 64) {
		return nil, newError(InvalidCoinAmount, "%s exceeds u64: %s", name, x)
	}
	return z, nil
}

func liquidityArg(x cosmath.Int) (*uint256.Int, error) {
	z, err := toU256(x, InvalidLiquidityAmount, "liquidity")
	if err != nil {
		return nil, err
	}
	if isOverflow(z, 128) {
		return nil, newError(InvalidLiquidityAmount, "liquidity exceeds u128: %s", x)
	}
	return z, nil
}

func sqrtPriceArg(x cosmath.Int, name string) (*uint256.Int, error) {
	z, err := toU256(x, InvalidSqrtPrice, name)
	if err != nil {
		return nil, err
	}
	if z.Lt(minSqrtPriceU) || z.Gt(maxSqrtPriceU) {
		return nil, newError(InvalidSqrtPrice, "%s %s is outside [%s, %s]", name, x, MinSqrtPrice, MaxSqrtPrice)
	}
	return z, nil
}

type u256Op func(a, b *uint256.Int) (*uint256.Int, error)

func applyBinary(a, b cosmath.Int, op u256Op) (cosmath.Int, error) {
	x, err := operandArg(a, "lhs")
	if err != nil {
		return cosmath.Int{}, err
	}
	y, err := operandArg(b, "rhs")
	if err != nil {
		return cosmath.Int{}, err
	}
	z, err := op(x, y)
	if err != nil {
		return cosmath.Int{}, err
	}
	return fromU256(z), nil
}

func applyTernary(a, b, c cosmath.Int, op func(a, b, c *uint256.Int) (*uint256.Int, error)) (cosmath.Int, error) {
	z, err := operandArg(c, "denominator")
	if err != nil {
		return cosmath.Int{}, err
	}
	return applyBinary(a, b, func(x, y *uint256.Int) (*uint256.Int, error) {
		return op(x, y, z)
	})
}

// IsOverflow reports whether n does not fit in an unsigned integer of the given width.
func IsOverflow(n cosmath.Int, bits uint) bool {
	if n.IsNil() {
		return false
	}
	return n.IsNegative() || n.BigInt().BitLen() > int(bits)
}

// CheckedMul returns a*b, failing with MultiplicationOverflow past maxBits.
func CheckedMul(a, b cosmath.Int, maxBits uint) (cosmath.Int, error) {
	return applyBinary(a, b, func(x, y *uint256.Int) (*uint256.Int, error) {
		return checkedMul(x, y, maxBits)
	})
}

// MulShiftLeft returns (a*b) << shift. It moves a value into Q64.64 space when shift is 64.
func MulShiftLeft(a, b cosmath.Int, shift, maxBits uint) (cosmath.Int, error) {
	return applyBinary(a, b, func(x, y *uint256.Int) (*uint256.Int, error) {
		return mulShiftLeft(x, y, shift, maxBits)
	})
}

// MulShiftRight returns (a*b) >> shift.
func MulShiftRight(a, b cosmath.Int, shift, maxBits uint) (cosmath.Int, error) {
	return applyBinary(a, b, func(x, y *uint256.Int) (*uint256.Int, error) {
		return mulShiftRight(x, y, shift, maxBits)
	})
}

// MulShiftRight64RoundUpIf returns (a*b) >> 64, plus one when roundUp is set
// and any of the discarded low 64 bits are non-zero.
func MulShiftRight64RoundUpIf(a, b cosmath.Int, maxBits uint, roundUp bool) (cosmath.Int, error) {
	return applyBinary(a, b, func(x, y *uint256.Int) (*uint256.Int, error) {
		return mulShiftRight64RoundUpIf(x, y, maxBits, roundUp)
	})
}

// MulDivFloor returns floor(a*b/denom). Only the result is checked against maxBits.
func MulDivFloor(a, b, denom cosmath.Int, maxBits uint) (cosmath.Int, error) {
	return applyTernary(a, b, denom, func(x, y, z *uint256.Int) (*uint256.Int, error) {
		return mulDivFloor(x, y, z, maxBits)
	})
}

// MulDivCeil returns ceil(a*b/denom).
func MulDivCeil(a, b, denom cosmath.Int, maxBits uint) (cosmath.Int, error) {
	return applyTernary(a, b, denom, func(x, y, z *uint256.Int) (*uint256.Int, error) {
		return mulDivCeil(x, y, z, maxBits)
	})
}

// MulDivRound returns a*b/denom rounded half up.
func MulDivRound(a, b, denom cosmath.Int, maxBits uint) (cosmath.Int, error) {
	return applyTernary(a, b, denom, func(x, y, z *uint256.Int) (*uint256.Int, error) {
		return mulDivRound(x, y, z, maxBits)
	})
}

// DivRoundUp divides num by denom, rounding up only when roundUp is set.
func DivRoundUp(num, denom cosmath.Int, roundUp bool) (cosmath.Int, error) {
	return applyBinary(num, denom, func(x, y *uint256.Int) (*uint256.Int, error) {
		return divRoundUp(x, y, roundUp)
	})
}

// CheckedSub returns a-b and fails with UnsignedIntegerOverflow when b > a.
func CheckedSub(a, b cosmath.Int) (cosmath.Int, error) {
	return applyBinary(a, b, checkedSub)
}

var (
	two64Dec = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)
	pow5To64 = new(big.Int).Exp(big.NewInt(5), big.NewInt(64), nil)
)

// ToX64 converts a decimal into Q64.64 fixed point, flooring the fraction.
func ToX64(d decimal.Decimal) (cosmath.Int, error) {
	if d.IsNegative() {
		return cosmath.Int{}, newError(UnsignedIntegerOverflow, "negative value %s", d)
	}
	v := d.Mul(two64Dec).Floor().BigInt()
	if v.BitLen() > 256 {
		return cosmath.Int{}, newError(IntegerDowncastOverflow, "%s exceeds 256 bits in Q64.64", d)
	}
	return cosmath.NewIntFromBigInt(v), nil
}

// FromX64 converts a Q64.64 fixed-point value into an exact decimal.
func FromX64(x cosmath.Int) decimal.Decimal {
	if x.IsNil() {
		return decimal.Zero
	}
	// x / 2^64 == x * 5^64 / 10^64
	return decimal.NewFromBigInt(new(big.Int).Mul(x.BigInt(), pow5To64), -64)
}
