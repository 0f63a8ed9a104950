package clmm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceToSqrtPriceX64(t *testing.T) {
	sp, err := PriceToSqrtPriceX64(decimal.NewFromInt(1), 6, 6)
	require.NoError(t, err)
	assert.True(t, sp.Equal(q64))

	sp, err = PriceToSqrtPriceX64(decimal.NewFromInt(1), 9, 6)
	require.NoError(t, err)
	assert.Equal(t, "583337266871351588", sp.String())

	_, err = PriceToSqrtPriceX64(decimal.Zero, 6, 6)
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)

	_, err = PriceToSqrtPriceX64(decimal.New(1, 40), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSqrtPrice)
}

func TestSqrtPriceX64ToPrice(t *testing.T) {
	price, err := SqrtPriceX64ToPrice(pow2(65), 0, 0)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(4)))

	price, err = TickIndexToPrice(0, 9, 6)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(1000)))

	price, err = TickIndexToPrice(4054, 0, 0)
	require.NoError(t, err)
	assert.True(t, price.LessThanOrEqual(decimal.RequireFromString("1.5")))
	assert.True(t, price.GreaterThan(decimal.RequireFromString("1.4998")))

	_, err = TickIndexToPrice(MaxTickIndex+1, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTickIndex)
}

func TestPriceToTickIndex(t *testing.T) {
	cases := []struct {
		price      string
		decA, decB uint8
		want       int32
	}{
		{"1", 6, 6, 0},
		{"1", 9, 6, -69082},
		{"1.5", 0, 0, 4054},
		{"2", 0, 0, 6931},
	}
	for _, c := range cases {
		got, err := PriceToTickIndex(decimal.RequireFromString(c.price), c.decA, c.decB)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "price %s", c.price)
	}

	tick, err := PriceToInitializableTickIndex(decimal.RequireFromString("1.5"), 0, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, int32(4020), tick)
}
