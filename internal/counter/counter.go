// Package counter implements the durable counter cache backing likes,
// follower counts, and per-user membership flags. Counters are derived
// data: the relation store stays the source of truth and every key can
// be recomputed through RememberForever after a Forget.
package counter

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

// Compute recomputes a counter from the relation store on cache miss.
type Compute func(ctx context.Context) (int64, error)

// Store is the counter cache contract. Increment and Decrement on a
// missing key initialize it from 0; both must be atomic with respect to
// each other for the same key.
type Store interface {
	// Get returns the cached value and whether the key is present.
	Get(ctx context.Context, key string) (int64, bool, error)

	// RememberForever returns the cached value, or computes and stores
	// it without expiry on miss.
	RememberForever(ctx context.Context, key string, compute Compute) (int64, error)

	// Set stores a value without expiry. Used for boolean flags (0/1).
	Set(ctx context.Context, key string, value int64) error

	Increment(ctx context.Context, key string) error
	Decrement(ctx context.Context, key string) error

	// Forget removes keys so the next read recomputes from source.
	Forget(ctx context.Context, keys ...string) error

	// ForgetScope removes every key whose trailing segment is the
	// target's key: aggregates and per-user flags alike. Used when the
	// target entity itself is deleted.
	ForgetScope(ctx context.Context, target models.Ref) error
}
