package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkoutKeyTTL = 24 * time.Hour

// CheckoutGuard deduplicates checkouts by client-supplied idempotency key.
// Key format: checkout:<idempotency_key>
type CheckoutGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutGuard creates a CheckoutGuard wrapping the given Redis client.
func NewCheckoutGuard(client *redis.Client) *CheckoutGuard {
	return &CheckoutGuard{client: client, ttl: checkoutKeyTTL}
}

// Acquire claims the key with SETNX. It returns false when a checkout with
// the same key was already accepted within the TTL.
func (g *CheckoutGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("checkout guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the key so a rejected checkout can be retried.
func (g *CheckoutGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("checkout guard release: %w", err)
	}
	return nil
}

func (g *CheckoutGuard) key(k string) string {
	return "checkout:" + k
}

// NoopGuard accepts every key. It is used when Redis is disabled.
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string) (bool, error) { return true, nil }

func (NoopGuard) Release(context.Context, string) error { return nil }
