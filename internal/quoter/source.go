package quoter

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnavailable marks a tick for which no usable price could be obtained.
var ErrUnavailable = errors.New("quote unavailable")

// Request identifies one quote: swap AmountIn (raw token units) of TokenIn
// for TokenOut through the pool with the given fee tier.
type Request struct {
	TokenIn  common.Address
	TokenOut common.Address
	FeeTier  uint32
	AmountIn *big.Int
}

// Source returns the output amount for a request, already scaled to a
// human-unit price.
type Source interface {
	Quote(ctx context.Context, req Request) (float64, error)
	Name() string
}
