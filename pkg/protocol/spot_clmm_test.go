package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yimingwow/clmm/pkg"
	"github.com/yimingwow/clmm/pkg/pool/spot"
	"lukechampine.com/uint128"
)

func testPool(id, name, coinA, coinB string) *spot.Pool {
	return &spot.Pool{
		PoolId:       id,
		Name:         name,
		CoinA:        spot.CoinMeta{Type: coinA, Decimals: 9},
		CoinB:        spot.CoinMeta{Type: coinB, Decimals: 6},
		SqrtPriceX64: uint128.From64(1).Lsh(64),
		Liquidity:    uint128.From64(1_000_000),
		FeeRate:      500,
		TickSpacing:  10,
	}
}

func TestSpotClmmFetch(t *testing.T) {
	ctx := context.Background()
	p, err := NewSpotClmm(
		testPool("0x1", "SUI-USDC", "sui", "usdc"),
		testPool("0x2", "USDC-SUI", "usdc", "sui"),
		testPool("0x3", "SUI-ETH", "sui", "eth"),
	)
	require.NoError(t, err)
	assert.Equal(t, pkg.ProtocolNameSpotClmm, p.ProtocolName())

	pools, err := p.FetchPoolsByPair(ctx, "sui", "usdc")
	require.NoError(t, err)
	assert.Len(t, pools, 2)

	pools, err = p.FetchPoolsByPair(ctx, "eth", "usdc")
	require.NoError(t, err)
	assert.Empty(t, pools)

	pool, err := p.FetchPoolByID(ctx, "0x3")
	require.NoError(t, err)
	assert.Equal(t, "0x3", pool.GetID())

	_, err = p.FetchPoolByID(ctx, "0x9")
	assert.ErrorIs(t, err, ErrPoolNotFound)

	named, err := p.FetchPoolByName(ctx, "USDC-SUI")
	require.NoError(t, err)
	assert.Equal(t, "0x2", named.GetID())
}

func TestSpotClmmRegister(t *testing.T) {
	p, err := NewSpotClmm(testPool("0x1", "A", "sui", "usdc"))
	require.NoError(t, err)

	assert.Error(t, p.Register(testPool("0x1", "B", "sui", "usdc")), "duplicate id")

	bad := testPool("0x2", "C", "sui", "usdc")
	bad.TickCurrent = 7
	assert.Error(t, p.Register(bad))
}

func TestSpotClmmResolve(t *testing.T) {
	ctx := context.Background()
	inline := testPool("0xinline", "", "sui", "usdc")
	p, err := NewSpotClmm(testPool("0x1", "SUI-USDC", "sui", "usdc"))
	require.NoError(t, err)

	pool, err := p.Resolve(ctx, PoolRef{ID: "0x1"})
	require.NoError(t, err)
	assert.Equal(t, "0x1", pool.PoolId)

	pool, err = p.Resolve(ctx, PoolRef{Name: "SUI-USDC"})
	require.NoError(t, err)
	assert.Equal(t, "0x1", pool.PoolId)

	pool, err = p.Resolve(ctx, PoolRef{Pool: inline})
	require.NoError(t, err)
	assert.Same(t, inline, pool)

	_, err = p.Resolve(ctx, PoolRef{})
	assert.ErrorIs(t, err, ErrInvalidPoolRef)

	_, err = p.Resolve(ctx, PoolRef{ID: "0x1", Name: "SUI-USDC"})
	assert.ErrorIs(t, err, ErrInvalidPoolRef)

	_, err = p.Resolve(ctx, PoolRef{Name: "missing"})
	assert.ErrorIs(t, err, ErrPoolNotFound)
}
