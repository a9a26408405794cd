package challenge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chainregistry/warden/core"
	"github.com/chainregistry/warden/ports"
)

// consumeScript implements compare-and-consume server-side so redemption is
// atomic even across processes sharing the store. ARGV[1] is the supplied
// nonce, ARGV[2] the caller's clock in unix milliseconds.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 'not_found'
end
local c = cjson.decode(raw)
if tonumber(ARGV[2]) > c.expires_at_ms then
	return 'expired'
end
if c.nonce ~= ARGV[1] then
	return 'mismatch'
end
if c.consumed then
	return 'consumed'
end
c.consumed = true
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
	redis.call('SET', KEYS[1], cjson.encode(c), 'PX', ttl)
else
	redis.call('SET', KEYS[1], cjson.encode(c))
end
return 'ok'
`)

// redisChallenge is the stored wire form of a challenge record.
type redisChallenge struct {
	ID          string `json:"id"`
	Nonce       string `json:"nonce"`
	IssuedAtMS  int64  `json:"issued_at_ms"`
	ExpiresAtMS int64  `json:"expires_at_ms"`
	Consumed    bool   `json:"consumed"`
}

// RedisStore is a redis-backed ChallengeStore. SET on the wallet key
// supersedes any outstanding challenge; the key's own TTL handles purging.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a redis challenge store with the given TTL.
// A non-positive ttl selects DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: "warden:challenge:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(address string) string {
	return s.prefix + address
}

// Issue creates a new challenge for the wallet, overwriting any prior one.
func (s *RedisStore) Issue(ctx context.Context, address string) (*core.Challenge, error) {
	nonceBuf := make([]byte, nonceBytes)
	if _, err := rand.Read(nonceBuf); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := time.Now()
	c := &core.Challenge{
		ID:        uuid.New().String(),
		Address:   address,
		Nonce:     hex.EncodeToString(nonceBuf),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(redisChallenge{
		ID:          c.ID,
		Nonce:       c.Nonce,
		IssuedAtMS:  c.IssuedAt.UnixMilli(),
		ExpiresAtMS: c.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode challenge: %w", err)
	}

	// Keep the record one TTL past expiry so a late duplicate redemption
	// still maps to a challenge error instead of vanishing.
	if err := s.client.Set(ctx, s.key(address), payload, 2*s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	return c, nil
}

// Consume redeems the challenge for (address, nonce) via the Lua script.
func (s *RedisStore) Consume(ctx context.Context, address, nonce string) error {
	res, err := consumeScript.Run(ctx, s.client,
		[]string{s.key(address)}, nonce, time.Now().UnixMilli()).Text()
	if err != nil {
		return fmt.Errorf("failed to consume challenge: %w", err)
	}

	switch res {
	case "ok":
		return nil
	case "not_found":
		return core.ErrChallengeNotFound
	case "expired":
		return core.ErrChallengeExpired
	case "mismatch":
		return core.ErrChallengeMismatch
	case "consumed":
		return core.ErrChallengeConsumed
	default:
		return fmt.Errorf("unexpected consume result %q", res)
	}
}

var _ ports.ChallengeStore = (*RedisStore)(nil)
