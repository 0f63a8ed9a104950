package clmm

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickIndexToSqrtPriceX64(t *testing.T) {
	_, err := TickIndexToSqrtPriceX64(MinTickIndex - 1)
	assert.ErrorIs(t, err, ErrInvalidTickIndex, "tick too small")

	_, err = TickIndexToSqrtPriceX64(MaxTickIndex + 1)
	assert.ErrorIs(t, err, ErrInvalidTickIndex, "tick too large")

	cases := []struct {
		tick int32
		want string
	}{
		{MinTickIndex, "4295048016"},
		{MaxTickIndex, "79226673515401279992447579055"},
		{0, "18446744073709551616"},
		{1, "18447666387855959850"},
		{-1, "18445821805675392311"},
		{100, "18539204128674405812"},
		{-100, "18354745142194483561"},
		{200, "18632127618364105992"},
		{-200, "18263205034381099367"},
		{10000, "30412779051191548722"},
		{-10000, "11188795550323325955"},
	}
	for _, c := range cases {
		got, err := TickIndexToSqrtPriceX64(c.tick)
		require.NoError(t, err)
		assert.Equal(t, c.want, got.String(), "tick %d", c.tick)
	}
}

func TestSqrtPriceX64ToTickIndex(t *testing.T) {
	_, err := SqrtPriceX64ToTickIndex(MinSqrtPrice.SubRaw(1))
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)

	_, err = SqrtPriceX64ToTickIndex(MaxSqrtPrice.AddRaw(1))
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)

	_, err = SqrtPriceX64ToTickIndex(cosmath.NewInt(-5))
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)

	tick, err := SqrtPriceX64ToTickIndex(MinSqrtPrice)
	require.NoError(t, err)
	assert.Equal(t, MinTickIndex, tick)

	tick, err = SqrtPriceX64ToTickIndex(MaxSqrtPrice)
	require.NoError(t, err)
	assert.Equal(t, MaxTickIndex, tick)

	// sqrt(2) and sqrt(1/1000) in Q64.64
	tick, err = SqrtPriceX64ToTickIndex(mustInt("26087635650665564424"))
	require.NoError(t, err)
	assert.Equal(t, int32(6931), tick)

	tick, err = SqrtPriceX64ToTickIndex(mustInt("583337266871351588"))
	require.NoError(t, err)
	assert.Equal(t, int32(-69082), tick)
}

func TestTickSqrtPriceBracketing(t *testing.T) {
	for _, tick := range []int32{-443635, -200000, -69082, -1, 0, 1, 4054, 6931, 200000, 443635} {
		lo := tickToSqrtPrice(tick)
		hi := tickToSqrtPrice(tick + 1)

		assert.Equal(t, tick, sqrtPriceToTick(lo), "exact price of tick %d", tick)
		below := hi.Clone()
		below.SubUint64(below, 1)
		assert.Equal(t, tick, sqrtPriceToTick(below), "just below tick %d", tick+1)
	}
}

func TestTickSqrtPriceRoundTrip(t *testing.T) {
	step := int32(1)
	if testing.Short() {
		step = 97
	}
	prev := tickToSqrtPrice(MinTickIndex)
	for tick := MinTickIndex; tick <= MaxTickIndex; tick += step {
		sp := tickToSqrtPrice(tick)
		if tick > MinTickIndex && !sp.Gt(prev) {
			t.Fatalf("sqrt price not increasing at tick %d", tick)
		}
		if got := sqrtPriceToTick(sp); got != tick {
			t.Fatalf("round trip of tick %d returned %d", tick, got)
		}
		prev = sp
	}
}

func TestInitializableTickIndex(t *testing.T) {
	cases := []struct {
		tick, spacing    int32
		want, next, prev int32
	}{
		{tick: 125, spacing: 60, want: 120, next: 180, prev: 60},
		{tick: -125, spacing: 60, want: -120, next: -60, prev: -180},
		{tick: 120, spacing: 60, want: 120, next: 180, prev: 60},
		{tick: 7, spacing: 1, want: 7, next: 8, prev: 6},
	}
	for _, c := range cases {
		got, err := GetInitializableTickIndex(c.tick, uint16(c.spacing))
		require.NoError(t, err)
		assert.Equal(t, c.want, got)

		next, err := GetNextInitializableTickIndex(c.tick, uint16(c.spacing))
		require.NoError(t, err)
		assert.Equal(t, c.next, next)

		prev, err := GetPrevInitializableTickIndex(c.tick, uint16(c.spacing))
		require.NoError(t, err)
		assert.Equal(t, c.prev, prev)
	}

	_, err := GetInitializableTickIndex(10, 0)
	assert.ErrorIs(t, err, ErrInvalidTickIndex)
}

func TestTickArrayStartIndex(t *testing.T) {
	cases := []struct {
		tick    int32
		spacing uint16
		want    int32
	}{
		{0, 1, 0},
		{63, 1, 0},
		{64, 1, 64},
		{-1, 1, -64},
		{-64, 1, -64},
		{-65, 1, -128},
		{1000, 10, 640},
		{-1000, 10, -1280},
	}
	for _, c := range cases {
		got, err := TickArrayStartIndex(c.tick, c.spacing)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "tick %d spacing %d", c.tick, c.spacing)
	}
}
