package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yimingwow/clmm/pkg"
	"github.com/yimingwow/clmm/pkg/pool/spot"
)

var (
	ErrPoolNotFound   = errors.New("pool not found")
	ErrInvalidPoolRef = errors.New("exactly one of pool id, name or pool must be set")
)

// PoolRef names a pool by ID, by name, or carries the pool itself.
type PoolRef struct {
	ID   string
	Name string
	Pool *spot.Pool
}

// SpotClmmProtocol serves pool snapshots held in memory.
type SpotClmmProtocol struct {
	mu     sync.RWMutex
	pools  []*spot.Pool
	byID   map[string]*spot.Pool
	byName map[string]*spot.Pool
}

func NewSpotClmm(pools ...*spot.Pool) (*SpotClmmProtocol, error) {
	p := &SpotClmmProtocol{
		byID:   make(map[string]*spot.Pool),
		byName: make(map[string]*spot.Pool),
	}
	for _, pool := range pools {
		if err := p.Register(pool); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *SpotClmmProtocol) ProtocolName() pkg.ProtocolName {
	return pkg.ProtocolNameSpotClmm
}

// Register validates pool and adds it to the registry.
func (p *SpotClmmProtocol) Register(pool *spot.Pool) error {
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("invalid pool: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byID[pool.PoolId]; ok {
		return fmt.Errorf("pool %s is already registered", pool.PoolId)
	}
	p.pools = append(p.pools, pool)
	p.byID[pool.PoolId] = pool
	if pool.Name != "" {
		p.byName[pool.Name] = pool
	}
	return nil
}

// FetchPoolsByPair returns every pool trading coinA against coinB, in either order.
func (p *SpotClmmProtocol) FetchPoolsByPair(ctx context.Context, coinA string, coinB string) ([]pkg.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	res := make([]pkg.Pool, 0)
	for _, pool := range p.pools {
		a, b := pool.GetTokens()
		if (a == coinA && b == coinB) || (a == coinB && b == coinA) {
			res = append(res, pool)
		}
	}
	return res, nil
}

func (p *SpotClmmProtocol) FetchPoolByID(ctx context.Context, poolID string) (pkg.Pool, error) {
	pool, err := p.poolByID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func (p *SpotClmmProtocol) poolByID(ctx context.Context, poolID string) (*spot.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	pool, ok := p.byID[poolID]
	if !ok {
		return nil, fmt.Errorf("pool id %s: %w", poolID, ErrPoolNotFound)
	}
	return pool, nil
}

func (p *SpotClmmProtocol) FetchPoolByName(ctx context.Context, name string) (*spot.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	pool, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("pool name %s: %w", name, ErrPoolNotFound)
	}
	return pool, nil
}

// Resolve returns the pool ref points at.
func (p *SpotClmmProtocol) Resolve(ctx context.Context, ref PoolRef) (*spot.Pool, error) {
	set := 0
	for _, ok := range []bool{ref.ID != "", ref.Name != "", ref.Pool != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, ErrInvalidPoolRef
	}
	switch {
	case ref.Pool != nil:
		return ref.Pool, nil
	case ref.ID != "":
		return p.poolByID(ctx, ref.ID)
	default:
		return p.FetchPoolByName(ctx, ref.Name)
	}
}
