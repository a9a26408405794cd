// Package challenge provides ChallengeStore implementations: an in-process
// store for single-instance deployments and tests, and a redis-backed store
// for deployments sharing challenge state across processes.
package challenge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/ports"
)

const (
	// DefaultTTL is how long an issued challenge stays redeemable.
	DefaultTTL = 5 * time.Minute

	// nonceBytes is the entropy of a nonce. 32 bytes is well past the
	// 128-bit floor.
	nonceBytes = 32

	// purgeInterval throttles the lazy sweep of stale records on Issue.
	purgeInterval = time.Minute
)

// MemoryStore is a mutex-guarded, wallet-keyed challenge map. Challenges do
// not survive a restart; clients simply re-request.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]*core.Challenge
	ttl        time.Duration
	now        func() time.Time
	lastPurge  time.Time
}

// NewMemoryStore creates a memory store with the given challenge TTL.
// A non-positive ttl selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		challenges: make(map[string]*core.Challenge),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue creates a new challenge for the wallet. Any prior outstanding
// challenge for the same wallet is superseded.
func (s *MemoryStore) Issue(ctx context.Context, address string) (*core.Challenge, error) {
	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeLocked(now)

	c := &core.Challenge{
		ID:        uuid.New().String(),
		Address:   address,
		Nonce:     nonce,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.challenges[address] = c

	cp := *c
	return &cp, nil
}

// Consume redeems the challenge for (address, nonce). The consumed flag is
// flipped under the same lock that checked it, so exactly one of N racing
// calls succeeds.
func (s *MemoryStore) Consume(ctx context.Context, address, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[address]
	if !ok {
		return core.ErrChallengeNotFound
	}
	if c.IsExpiredAt(s.now()) {
		return core.ErrChallengeExpired
	}
	if c.Nonce != nonce {
		return core.ErrChallengeMismatch
	}
	if c.Consumed {
		return core.ErrChallengeConsumed
	}

	c.Consumed = true
	return nil
}

// purgeLocked drops expired records. Consumed records are kept until expiry
// so a late duplicate redemption still reports ErrChallengeConsumed.
func (s *MemoryStore) purgeLocked(now time.Time) {
	if now.Sub(s.lastPurge) < purgeInterval {
		return
	}
	s.lastPurge = now
	for addr, c := range s.challenges {
		if c.IsExpiredAt(now) {
			delete(s.challenges, addr)
		}
	}
}

func generateNonce() (string, error) {
	b := make([]byte, nonceBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var _ ports.ChallengeStore = (*MemoryStore)(nil)
