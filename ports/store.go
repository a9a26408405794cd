package ports

import (
	"context"

	"github.com/chainregistry/warden/core"
)

// ChallengeStore holds at most one outstanding challenge per wallet address.
type ChallengeStore interface {
	// Issue creates a new challenge for the wallet, superseding any prior
	// outstanding one.
	Issue(ctx context.Context, address string) (*core.Challenge, error)

	// Consume atomically redeems the challenge identified by (address, nonce).
	// It succeeds exactly once; failures are core.ErrChallengeNotFound,
	// core.ErrChallengeExpired, core.ErrChallengeMismatch or
	// core.ErrChallengeConsumed.
	Consume(ctx context.Context, address, nonce string) error
}
