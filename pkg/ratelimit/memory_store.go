package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by a Go map. This is useful for
// unit tests, local development, and single-instance deployments. Because its
// state is local to the process, it does not enforce a global limit across
// multiple replicas; use RedisStore for that.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*bucket
}

// NewMemoryStore constructs a MemoryStore with empty state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// live returns the bucket for key if it exists and has not expired.
// Expired buckets are removed lazily on access.
func (m *MemoryStore) live(key string) *bucket {
	b, ok := m.buckets[key]
	if !ok {
		return nil
	}
	if !m.now().Before(b.expiresAt) {
		delete(m.buckets, key)
		return nil
	}
	return b
}

func (m *MemoryStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.live(key); b != nil {
		b.count++
		return b.count, nil
	}
	m.buckets[key] = &bucket{count: 1, expiresAt: m.now().Add(ttl)}
	return 1, nil
}

func (m *MemoryStore) Usage(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.live(key); b != nil {
		return b.count, nil
	}
	return 0, nil
}

func (m *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.live(key); b != nil {
		return b.expiresAt.Sub(m.now()), nil
	}
	return 0, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, key)
	return nil
}
