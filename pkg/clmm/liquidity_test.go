package clmm

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCoinAmountFromLiquidity(t *testing.T) {
	liquidity := cosmath.NewInt(1_000_000_000)
	lower, upper := mustInt("18354745142194483561"), priceTick100

	tests := []struct {
		name         string
		current      cosmath.Int
		roundUp      bool
		wantA, wantB int64
	}{
		{"in range rounded up", q64, true, 4_987_273, 4_987_273},
		{"in range rounded down", q64, false, 4_987_272, 4_987_272},
		{"below range holds only coin a", mustInt("18263205034381099367"), true, 9_999_542, 0},
		{"above range holds only coin b", priceTick200, true, 0, 9_999_542},
		{"at the upper bound holds only coin b", upper, true, 0, 9_999_542},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetCoinAmountFromLiquidity(liquidity, tt.current, lower, upper, tt.roundUp)
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, got.CoinA.Int64(), "coin a")
			assert.Equal(t, tt.wantB, got.CoinB.Int64(), "coin b")
		})
	}

	_, err := GetCoinAmountFromLiquidity(U128Max.AddRaw(1), q64, lower, upper, true)
	assert.ErrorIs(t, err, ErrInvalidLiquidityAmount)
}

func TestEstimateLiquidity(t *testing.T) {
	upper := priceTick100
	lower := mustInt("18354745142194483561")

	million := cosmath.NewInt(1_000_000)
	liqA, err := EstimateLiquidityForCoinA(q64, upper, cosmath.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "200510", liqA.String())

	swapped, err := EstimateLiquidityForCoinA(upper, q64, cosmath.NewInt(1000))
	require.NoError(t, err)
	assert.True(t, swapped.Equal(liqA), "argument order does not matter")

	liqB, err := EstimateLiquidityForCoinB(q64, lower, cosmath.NewInt(2000))
	require.NoError(t, err)
	assert.Equal(t, "401020", liqB.String())

	_, err = EstimateLiquidityForCoinA(q64, q64, cosmath.NewInt(1000))
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = EstimateLiquidityForCoinA(MaxSqrtPrice.SubRaw(1), MaxSqrtPrice, million)
	assert.ErrorIs(t, err, ErrIntegerDowncastOverflow)
}

func TestEstimateLiquidityFromCoinAmounts(t *testing.T) {
	cases := []struct {
		a, b int64
		want string
	}{
		{1000, 2000, "200510"},
		{1_000_000, 2000, "401020"},
	}
	for _, c := range cases {
		got, err := EstimateLiquidityFromCoinAmounts(q64, -100, 100, CoinAmounts{
			CoinA: cosmath.NewInt(c.a),
			CoinB: cosmath.NewInt(c.b),
		})
		require.NoError(t, err)
		assert.Equal(t, c.want, got.String(), "coins %d/%d", c.a, c.b)
	}

	_, err := EstimateLiquidityFromCoinAmounts(q64, 100, -100, CoinAmounts{CoinA: cosmath.NewInt(1), CoinB: cosmath.NewInt(1)})
	assert.ErrorIs(t, err, ErrInvalidTwoTickIndex)

	_, err = EstimateLiquidityFromCoinAmounts(q64, -100, MaxTickIndex+1, CoinAmounts{CoinA: cosmath.NewInt(1), CoinB: cosmath.NewInt(1)})
	assert.ErrorIs(t, err, ErrInvalidTickIndex)
}

func TestEstLiquidityAndCoinAmountFromOneAmounts(t *testing.T) {
	million := cosmath.NewInt(1_000_000)

	tests := []struct {
		name               string
		lower, upper       int32
		isCoinA            bool
		roundUp            bool
		slippage           string
		wantLiquidity      string
		wantA, wantB       int64
		wantMaxA, wantMaxB int64
	}{
		{"coin a in range", -100, 100, true, true, "0.01", "200510416", 1_000_000, 1_000_000, 1_010_000, 1_010_000},
		{"coin b in range rounded down", -100, 100, false, false, "0.05", "200510416", 999_999, 999_999, 949_999, 949_999},
		{"coin a above price", 100, 200, true, true, "0", "201515428", 1_000_000, 0, 1_000_000, 0},
		{"coin b below price", -200, -100, false, true, "0.01", "201515428", 0, 1_000_000, 0, 1_010_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstLiquidityAndCoinAmountFromOneAmounts(tt.lower, tt.upper, million, tt.isCoinA, tt.roundUp,
				decimal.RequireFromString(tt.slippage), q64)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLiquidity, got.LiquidityAmount.String())
			assert.Equal(t, tt.wantA, got.CoinAmountA.Int64(), "coin a")
			assert.Equal(t, tt.wantB, got.CoinAmountB.Int64(), "coin b")
			assert.Equal(t, tt.wantMaxA, got.TokenMaxA.Int64(), "max a")
			assert.Equal(t, tt.wantMaxB, got.TokenMaxB.Int64(), "max b")
			assert.Equal(t, tt.isCoinA, got.FixAmountA)
			assert.True(t, got.CoinAmount.Equal(million))
		})
	}

	_, err := EstLiquidityAndCoinAmountFromOneAmounts(100, 200, million, false, true, decimal.Zero, q64)
	assert.ErrorIs(t, err, ErrNotSupportedThisCoin)

	_, err = EstLiquidityAndCoinAmountFromOneAmounts(-200, -100, million, true, true, decimal.Zero, q64)
	assert.ErrorIs(t, err, ErrNotSupportedThisCoin)

	_, err = EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, true, true, decimal.RequireFromString("1.5"), q64)
	assert.ErrorIs(t, err, ErrInvalidSlippage)

	_, err = EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, true, true, decimal.RequireFromString("-0.1"), q64)
	assert.ErrorIs(t, err, ErrInvalidSlippage)

	_, err = EstLiquidityAndCoinAmountFromOneAmounts(100, -100, million, true, true, decimal.Zero, q64)
	assert.ErrorIs(t, err, ErrInvalidTwoTickIndex)
}

func TestLiquidityAtRangeBounds(t *testing.T) {
	lower := mustInt("18354745142194483561")
	upper := priceTick100
	million := cosmath.NewInt(1_000_000)

	t.Run("estimate at the lower bound uses only coin a", func(t *testing.T) {
		got, err := EstimateLiquidityFromCoinAmounts(lower, -100, 100, CoinAmounts{
			CoinA: cosmath.NewInt(1000),
			CoinB: cosmath.NewInt(1000),
		})
		require.NoError(t, err)
		assert.Equal(t, "100004", got.String())
	})

	t.Run("estimate at the upper bound uses only coin b", func(t *testing.T) {
		got, err := EstimateLiquidityFromCoinAmounts(upper, -100, 100, CoinAmounts{
			CoinA: cosmath.NewInt(1000),
			CoinB: cosmath.NewInt(2000),
		})
		require.NoError(t, err)
		assert.Equal(t, "200009", got.String())
	})

	t.Run("one side at the lower bound", func(t *testing.T) {
		got, err := EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, true, true, decimal.RequireFromString("0.01"), lower)
		require.NoError(t, err)
		assert.Equal(t, "100004583", got.LiquidityAmount.String())
		assert.Equal(t, int64(1_000_000), got.CoinAmountA.Int64())
		assert.True(t, got.CoinAmountB.IsZero())
		assert.Equal(t, int64(1_010_000), got.TokenMaxA.Int64())

		_, err = EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, false, true, decimal.Zero, lower)
		assert.ErrorIs(t, err, ErrNotSupportedThisCoin)
	})

	t.Run("one side at the upper bound", func(t *testing.T) {
		got, err := EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, false, true, decimal.Zero, upper)
		require.NoError(t, err)
		assert.Equal(t, "100004583", got.LiquidityAmount.String())
		assert.True(t, got.CoinAmountA.IsZero())
		assert.Equal(t, int64(1_000_000), got.CoinAmountB.Int64())

		_, err = EstLiquidityAndCoinAmountFromOneAmounts(-100, 100, million, true, true, decimal.Zero, upper)
		assert.ErrorIs(t, err, ErrNotSupportedThisCoin)
	})
}
