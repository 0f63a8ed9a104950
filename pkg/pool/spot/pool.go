package spot

import (
	"context"
	"errors"
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/yimingwow/clmm/pkg"
	"github.com/yimingwow/clmm/pkg/clmm"
	"lukechampine.com/uint128"
)

// ErrInsufficientLiquidity is returned by Quote when the initialized ticks
// cannot absorb the whole input amount.
var ErrInsufficientLiquidity = errors.New("insufficient liquidity")

type CoinMeta struct {
	Type     string `json:"type" mapstructure:"type"`
	Symbol   string `json:"symbol" mapstructure:"symbol"`
	Decimals uint8  `json:"decimals" mapstructure:"decimals"`
}

// Tick is an initialized tick. LiquidityNet holds the i128 bits as stored on chain.
type Tick struct {
	Index          int32
	LiquidityNet   uint128.Uint128
	LiquidityGross uint128.Uint128
}

// Pool is a snapshot of a concentrated liquidity pool.
type Pool struct {
	PoolId       string
	Name         string
	CoinA        CoinMeta
	CoinB        CoinMeta
	SqrtPriceX64 uint128.Uint128
	TickCurrent  int32
	Liquidity    uint128.Uint128
	FeeRate      uint32
	TickSpacing  uint16
	Ticks        []Tick
}

func (pool *Pool) ProtocolName() pkg.ProtocolName {
	return pkg.ProtocolNameSpotClmm
}

// GetID returns the pool ID
func (pool *Pool) GetID() string {
	return pool.PoolId
}

// GetTokens returns the coin A and coin B types
func (pool *Pool) GetTokens() (coinA, coinB string) {
	return pool.CoinA.Type, pool.CoinB.Type
}

// Quote returns the output amount for swapping amount of inputCoin through the pool.
func (pool *Pool) Quote(ctx context.Context, inputCoin string, amount cosmath.Int) (cosmath.Int, error) {
	if err := ctx.Err(); err != nil {
		return cosmath.Int{}, err
	}
	var a2b bool
	switch inputCoin {
	case pool.CoinA.Type:
		a2b = true
	case pool.CoinB.Type:
		a2b = false
	default:
		return cosmath.Int{}, fmt.Errorf("coin %s is not traded by pool %s", inputCoin, pool.PoolId)
	}

	res, err := pool.ComputeSwap(a2b, true, amount)
	if err != nil {
		return cosmath.Int{}, fmt.Errorf("failed to compute swap amount: %w", err)
	}
	if res.IsExceed {
		return cosmath.Int{}, fmt.Errorf("pool %s filled %s of %s: %w",
			pool.PoolId, res.AmountIn.Sub(res.FeeAmount), amount, ErrInsufficientLiquidity)
	}
	return res.AmountOut, nil
}

// ComputeSwap simulates a swap against the pool's initialized ticks.
func (pool *Pool) ComputeSwap(a2b, byAmountIn bool, amount cosmath.Int) (clmm.SwapResult, error) {
	ticks, err := pool.tickData()
	if err != nil {
		return clmm.SwapResult{}, err
	}
	return clmm.ComputeSwap(clmm.SwapParams{
		A2B:        a2b,
		ByAmountIn: byAmountIn,
		Amount:     amount,
	}, pool.poolData(), ticks)
}

func (pool *Pool) poolData() clmm.PoolData {
	return clmm.PoolData{
		CurrentSqrtPrice: cosmath.NewIntFromBigInt(pool.SqrtPriceX64.Big()),
		CurrentTickIndex: pool.TickCurrent,
		Liquidity:        cosmath.NewIntFromBigInt(pool.Liquidity.Big()),
		FeeRate:          uint64(pool.FeeRate),
	}
}

func (pool *Pool) tickData() ([]clmm.TickData, error) {
	ticks := make([]clmm.TickData, 0, len(pool.Ticks))
	for _, t := range pool.Ticks {
		sp, err := clmm.TickIndexToSqrtPriceX64(t.Index)
		if err != nil {
			return nil, fmt.Errorf("pool %s tick %d: %w", pool.PoolId, t.Index, err)
		}
		ticks = append(ticks, clmm.TickData{
			Index:        t.Index,
			SqrtPrice:    sp,
			LiquidityNet: clmm.I128FromBits(t.LiquidityNet),
		})
	}
	return ticks, nil
}

// Validate checks the snapshot is internally consistent.
func (pool *Pool) Validate() error {
	if pool.TickSpacing == 0 {
		return fmt.Errorf("pool %s: tick spacing is zero", pool.PoolId)
	}
	if uint64(pool.FeeRate) >= clmm.FeeRateDenominator {
		return fmt.Errorf("pool %s: fee rate %d is not below %d", pool.PoolId, pool.FeeRate, clmm.FeeRateDenominator)
	}
	sp := cosmath.NewIntFromBigInt(pool.SqrtPriceX64.Big())
	tick, err := clmm.SqrtPriceX64ToTickIndex(sp)
	if err != nil {
		return fmt.Errorf("pool %s: %w", pool.PoolId, err)
	}
	if tick != pool.TickCurrent {
		return fmt.Errorf("pool %s: current tick %d does not match sqrt price tick %d", pool.PoolId, pool.TickCurrent, tick)
	}
	seen := make(map[int32]struct{}, len(pool.Ticks))
	for _, t := range pool.Ticks {
		if t.Index%int32(pool.TickSpacing) != 0 {
			return fmt.Errorf("pool %s: tick %d is not a multiple of spacing %d", pool.PoolId, t.Index, pool.TickSpacing)
		}
		if t.Index < clmm.MinTickIndex || t.Index > clmm.MaxTickIndex {
			return fmt.Errorf("pool %s: tick %d: %w", pool.PoolId, t.Index, clmm.ErrInvalidTickIndex)
		}
		if _, ok := seen[t.Index]; ok {
			return fmt.Errorf("pool %s: duplicate tick %d", pool.PoolId, t.Index)
		}
		seen[t.Index] = struct{}{}
	}
	return nil
}

// CurrentPrice returns the human price of coin A in coin B.
func (pool *Pool) CurrentPrice() (decimal.Decimal, error) {
	return pool.SqrtPriceX64ToPrice(cosmath.NewIntFromBigInt(pool.SqrtPriceX64.Big()))
}

func (pool *Pool) PriceToSqrtPriceX64(price decimal.Decimal) (cosmath.Int, error) {
	return clmm.PriceToSqrtPriceX64(price, pool.CoinA.Decimals, pool.CoinB.Decimals)
}

func (pool *Pool) SqrtPriceX64ToPrice(sqrtPrice cosmath.Int) (decimal.Decimal, error) {
	return clmm.SqrtPriceX64ToPrice(sqrtPrice, pool.CoinA.Decimals, pool.CoinB.Decimals)
}

func (pool *Pool) PriceToTick(price decimal.Decimal) (int32, error) {
	return clmm.PriceToTickIndex(price, pool.CoinA.Decimals, pool.CoinB.Decimals)
}

// LiquidityParams are the inputs of a provide-liquidity call.
type LiquidityParams struct {
	LowerTick      int32            `json:"lower_tick"`
	UpperTick      int32            `json:"upper_tick"`
	LowerPriceX64  cosmath.Int      `json:"lower_price_x64"`
	UpperPriceX64  cosmath.Int      `json:"upper_price_x64"`
	LowerPrice     decimal.Decimal  `json:"lower_price"`
	UpperPrice     decimal.Decimal  `json:"upper_price"`
	Liquidity      cosmath.Int      `json:"liquidity"`
	CoinAmounts    clmm.CoinAmounts `json:"coin_amounts"`
	MinCoinAmounts clmm.CoinAmounts `json:"min_coin_amounts"`
}

// LiquidityParams converts a price range and coin amounts into ticks,
// liquidity and slippage-bounded minimum amounts. slippage is a fraction in [0, 1].
func (pool *Pool) LiquidityParams(lowerPrice, upperPrice decimal.Decimal, amounts clmm.CoinAmounts, slippage decimal.Decimal) (LiquidityParams, error) {
	if slippage.IsNegative() || slippage.GreaterThan(decimal.NewFromInt(1)) {
		return LiquidityParams{}, fmt.Errorf("slippage %s: %w", slippage, clmm.ErrInvalidSlippage)
	}
	lowerX64, err := pool.PriceToSqrtPriceX64(lowerPrice)
	if err != nil {
		return LiquidityParams{}, fmt.Errorf("lower price: %w", err)
	}
	upperX64, err := pool.PriceToSqrtPriceX64(upperPrice)
	if err != nil {
		return LiquidityParams{}, fmt.Errorf("upper price: %w", err)
	}
	lowerTick, err := clmm.SqrtPriceX64ToTickIndex(lowerX64)
	if err != nil {
		return LiquidityParams{}, err
	}
	upperTick, err := clmm.SqrtPriceX64ToTickIndex(upperX64)
	if err != nil {
		return LiquidityParams{}, err
	}

	liquidity, err := clmm.EstimateLiquidityFromCoinAmounts(
		cosmath.NewIntFromBigInt(pool.SqrtPriceX64.Big()), lowerTick, upperTick, amounts)
	if err != nil {
		return LiquidityParams{}, err
	}

	return LiquidityParams{
		LowerTick:     lowerTick,
		UpperTick:     upperTick,
		LowerPriceX64: lowerX64,
		UpperPriceX64: upperX64,
		LowerPrice:    lowerPrice,
		UpperPrice:    upperPrice,
		Liquidity:     liquidity,
		CoinAmounts:   amounts,
		MinCoinAmounts: clmm.CoinAmounts{
			CoinA: floorInt(GetPercentageAmount(decimal.NewFromBigInt(amounts.CoinA.BigInt(), 0), slippage, false)),
			CoinB: floorInt(GetPercentageAmount(decimal.NewFromBigInt(amounts.CoinB.BigInt(), 0), slippage, false)),
		},
	}, nil
}

func floorInt(d decimal.Decimal) cosmath.Int {
	return cosmath.NewIntFromBigInt(d.Floor().BigInt())
}

// NewTick builds a Tick from a signed net and an unsigned gross liquidity.
func NewTick(index int32, liquidityNet, liquidityGross cosmath.Int) (Tick, error) {
	net, err := clmm.I128ToBits(liquidityNet)
	if err != nil {
		return Tick{}, fmt.Errorf("tick %d liquidity net: %w", index, err)
	}
	gross, err := clmm.ToU128(liquidityGross)
	if err != nil {
		return Tick{}, fmt.Errorf("tick %d liquidity gross: %w", index, err)
	}
	return Tick{Index: index, LiquidityNet: net, LiquidityGross: gross}, nil
}
