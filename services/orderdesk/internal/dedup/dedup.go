// Package dedup guards the order desk against replayed submissions: the same
// order posted twice within a short window yields the first order's number
// once that order is accepted.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces fingerprints in Redis.
const KeyPrefix = "orderdesk:fingerprint:"

// ErrInProgress is returned by Claim while the first submission holding the
// fingerprint has not been confirmed yet.
var ErrInProgress = errors.New("order with this fingerprint is still being processed")

// pending marks a fingerprint whose order is not accepted yet.
const pending = "pending"

// Guard claims order fingerprints for a limited time.
type Guard interface {
	// Claim marks fingerprint as in progress for ttl. When the fingerprint is
	// already held by a confirmed order, claimed is false and existing is that
	// order's number. While the holder is unconfirmed Claim returns ErrInProgress.
	Claim(ctx context.Context, fingerprint string, ttl time.Duration) (existing string, claimed bool, err error)
	// Confirm records the accepted order's number under a claimed fingerprint,
	// keeping the original expiry.
	Confirm(ctx context.Context, fingerprint, number string) error
	// Release forgets fingerprint so the next identical submission is processed.
	Release(ctx context.Context, fingerprint string) error
}

// RedisGuard keeps fingerprints in Redis with SET NX and a TTL.
type RedisGuard struct {
	client redis.Cmdable
}

var _ Guard = (*RedisGuard)(nil)

// NewRedisGuard creates a Redis-backed guard.
func NewRedisGuard(client redis.Cmdable) *RedisGuard {
	return &RedisGuard{client: client}
}

// Claim implements Guard.
func (g *RedisGuard) Claim(ctx context.Context, fingerprint string, ttl time.Duration) (string, bool, error) {
	key := KeyPrefix + fingerprint

	// A key that expires between SETNX and GET is claimed on the second pass.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := g.client.SetNX(ctx, key, pending, ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("claim fingerprint: %w", err)
		}
		if ok {
			return "", true, nil
		}

		existing, err := g.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("read fingerprint: %w", err)
		}
		if existing == pending {
			return "", false, ErrInProgress
		}
		return existing, false, nil
	}
	return "", false, fmt.Errorf("claim fingerprint: key %s kept expiring", key)
}

// Confirm implements Guard. A fingerprint that expired meanwhile is left alone.
func (g *RedisGuard) Confirm(ctx context.Context, fingerprint, number string) error {
	err := g.client.SetArgs(ctx, KeyPrefix+fingerprint, number, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("confirm fingerprint: %w", err)
	}
	return nil
}

// Release implements Guard.
func (g *RedisGuard) Release(ctx context.Context, fingerprint string) error {
	if err := g.client.Del(ctx, KeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("release fingerprint: %w", err)
	}
	return nil
}

type claim struct {
	number  string
	expires time.Time
}

// MemoryGuard is a process-local Guard for single-instance deployments.
type MemoryGuard struct {
	mu     sync.Mutex
	claims map[string]claim
	now    func() time.Time
}

var _ Guard = (*MemoryGuard)(nil)

// NewMemoryGuard creates an in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{claims: make(map[string]claim), now: time.Now}
}

// Claim implements Guard. Expired entries are dropped as they are met.
func (g *MemoryGuard) Claim(_ context.Context, fingerprint string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for fp, c := range g.claims {
		if !now.Before(c.expires) {
			delete(g.claims, fp)
		}
	}

	if c, ok := g.claims[fingerprint]; ok {
		if c.number == pending {
			return "", false, ErrInProgress
		}
		return c.number, false, nil
	}
	g.claims[fingerprint] = claim{number: pending, expires: now.Add(ttl)}
	return "", true, nil
}

// Confirm implements Guard.
func (g *MemoryGuard) Confirm(_ context.Context, fingerprint, number string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.claims[fingerprint]; ok && g.now().Before(c.expires) {
		c.number = number
		g.claims[fingerprint] = c
	}
	return nil
}

// Release implements Guard.
func (g *MemoryGuard) Release(_ context.Context, fingerprint string) error {
	g.mu.Lock()
	delete(g.claims, fingerprint)
	g.mu.Unlock()
	return nil
}

// Len returns the number of live claims.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claims)
}
