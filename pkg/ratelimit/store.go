package ratelimit

import (
	"context"
	"time"
)

// Store is the counter backend a limiter coordinates through. Implementations
// must be safe for concurrent use across goroutines, and — for distributed
// deployments — across processes: Incr in particular has to be atomic with no
// lost updates, because it is the only point of coordination between callers.
type Store interface {
	// Incr atomically increments the counter at key by 1 and returns the new
	// value. If the key does not exist it is created at 1 with the given
	// expiry. The expiry is set once, at creation; later increments must not
	// extend it.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Usage returns the current value at key without mutating it.
	// Returns 0 if the key does not exist.
	Usage(ctx context.Context, key string) (int64, error)

	// TTL returns the remaining lifetime of the key, or 0 or less if the key
	// does not exist or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Delete removes the key immediately.
	Delete(ctx context.Context, key string) error
}
