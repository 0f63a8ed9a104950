package router

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/yimingwow/clmm/pkg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoRoute = errors.New("no route found")

type SimpleRouter struct {
	Protocols []pkg.Protocol
	Pools     []pkg.Pool

	logger *zap.Logger
	// maxConcurrentQuotes bounds the quoting fan-out; zero means unbounded.
	maxConcurrentQuotes int
	rateLimiter         *RateLimiter
}

type Option func(*SimpleRouter)

func WithLogger(logger *zap.Logger) Option {
	return func(r *SimpleRouter) {
		r.logger = logger
	}
}

func WithMaxConcurrentQuotes(n int) Option {
	return func(r *SimpleRouter) {
		r.maxConcurrentQuotes = n
	}
}

// WithQuoteRate paces quotes to quotesPerSecond; zero leaves them unpaced.
func WithQuoteRate(quotesPerSecond int) Option {
	return func(r *SimpleRouter) {
		if quotesPerSecond > 0 {
			r.rateLimiter = NewRateLimiter(quotesPerSecond)
		}
	}
}

func NewSimpleRouter(protocols []pkg.Protocol, opts ...Option) *SimpleRouter {
	r := &SimpleRouter{
		Protocols: protocols,
		Pools:     []pkg.Pool{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// QueryAllPools loads every pool trading the pair from each protocol.
// A failing protocol is logged and skipped.
func (r *SimpleRouter) QueryAllPools(ctx context.Context, coinA, coinB string) error {
	var allPools []pkg.Pool

	for _, proto := range r.Protocols {
		r.logger.Debug("fetching pools", zap.String("protocol", string(proto.ProtocolName())))
		pools, err := proto.FetchPoolsByPair(ctx, coinA, coinB)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("error fetching pools from protocol",
				zap.String("protocol", string(proto.ProtocolName())), zap.Error(err))
			continue
		}
		allPools = append(allPools, pools...)
	}

	r.Pools = allPools
	r.logger.Info("pools loaded", zap.String("coin_a", coinA), zap.String("coin_b", coinB), zap.Int("count", len(allPools)))
	return nil
}

// GetBestPool quotes every loaded pool concurrently and returns the one with
// the largest output. Pools that fail to quote are logged and skipped; ties go
// to the pool loaded first.
func (r *SimpleRouter) GetBestPool(ctx context.Context, coinIn string, amountIn math.Int) (pkg.Pool, math.Int, error) {
	quotes := make([]*math.Int, len(r.Pools))

	g, gctx := errgroup.WithContext(ctx)
	if r.maxConcurrentQuotes > 0 {
		g.SetLimit(r.maxConcurrentQuotes)
	}
	for i, pool := range r.Pools {
		i, pool := i, pool
		g.Go(func() error {
			if r.rateLimiter != nil {
				if err := r.rateLimiter.Wait(gctx); err != nil {
					return err
				}
			}
			outAmount, err := pool.Quote(gctx, coinIn, amountIn)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.Warn("error quoting pool", zap.String("pool", pool.GetID()), zap.Error(err))
				return nil
			}
			r.logger.Debug("pool quoted", zap.String("pool", pool.GetID()), zap.Stringer("amount_out", outAmount))
			quotes[i] = &outAmount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, math.ZeroInt(), err
	}

	var best pkg.Pool
	maxOut := math.ZeroInt()
	for i, out := range quotes {
		if out == nil {
			continue
		}
		if best == nil || out.GT(maxOut) {
			maxOut = *out
			best = r.Pools[i]
		}
	}

	if best == nil {
		return nil, math.ZeroInt(), fmt.Errorf("%s via %d pools: %w", coinIn, len(r.Pools), ErrNoRoute)
	}
	return best, maxOut, nil
}
