package pkg

import (
	"context"

	"cosmossdk.io/math"
)

// ProtocolName represents the string name of a pool protocol
type ProtocolName string

const (
	ProtocolNameSpotClmm ProtocolName = "spot_clmm"
)

type Pool interface {
	ProtocolName() ProtocolName
	GetID() string
	GetTokens() (coinA, coinB string)
	// Quote returns the amount of the other coin received for amount of inputCoin.
	Quote(ctx context.Context, inputCoin string, amount math.Int) (math.Int, error)
}

type Protocol interface {
	ProtocolName() ProtocolName
	FetchPoolsByPair(ctx context.Context, coinA, coinB string) ([]Pool, error)
	FetchPoolByID(ctx context.Context, poolID string) (Pool, error)
}
