package clmm

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestDowncast(t *testing.T) {
	v, err := ToU64(U64Max)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), v)

	_, err = ToU64(U64Max.AddRaw(1))
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)

	_, err = ToU64(cosmath.NewInt(-1))
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)

	w, err := ToU128(U128Max)
	require.NoError(t, err)
	assert.Equal(t, uint128.Max, w)

	_, err = ToU128(U128Max.AddRaw(1))
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)
}

func TestI128Bits(t *testing.T) {
	for _, s := range []string{"0", "1", "-1", "-400000000000", "170141183460469231731687303715884105727", "-170141183460469231731687303715884105728"} {
		x := mustInt(s)
		bits, err := I128ToBits(x)
		require.NoError(t, err, s)
		assert.True(t, I128FromBits(bits).Equal(x), s)
	}

	bits, err := I128ToBits(cosmath.NewInt(-1))
	require.NoError(t, err)
	assert.Equal(t, uint128.Max, bits)

	_, err = I128ToBits(pow2(127))
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)

	_, err = I128ToBits(pow2(127).Neg().SubRaw(1))
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)
}

func TestI32Bits(t *testing.T) {
	assert.Equal(t, uint32(4294967295), I32ToBits(-1))
	assert.Equal(t, int32(-1), I32FromBits(4294967295))
	assert.Equal(t, MinTickIndex, I32FromBits(I32ToBits(MinTickIndex)))
}

func TestSubUnderflowU128(t *testing.T) {
	got, err := SubUnderflowU128(cosmath.NewInt(5), cosmath.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Int64())

	got, err = SubUnderflowU128(cosmath.ZeroInt(), cosmath.OneInt())
	require.NoError(t, err)
	assert.True(t, got.Equal(U128Max))

	_, err = SubUnderflowU128(U128Max.AddRaw(1), cosmath.OneInt())
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)
}
