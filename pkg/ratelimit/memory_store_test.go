package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrCreatesAtOne(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	count, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
}

func TestMemoryStore_ExpiryFixedAtCreation(t *testing.T) {
	ctx := context.Background()
	store, clk := newTestStore()

	_, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)

	clk.Advance(40 * time.Second)
	_, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, ttl, "second increment must not extend the expiry")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, clk := newTestStore()

	_, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	_, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)

	clk.Advance(time.Minute)

	count, err := store.Usage(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)

	// A post-expiry increment starts a fresh bucket.
	count, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_UsageAbsentKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	count, err := store.Usage(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	_, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "k"))

	count, err := store.Usage(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMemoryStore_ContextCancellation(t *testing.T) {
	store, _ := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Incr(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

// Race test
func TestMemoryStore_ThreadSafety(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Incr(ctx, "k", time.Minute)
		}()
	}
	wg.Wait()

	count, err := store.Usage(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(100), count, "no increment may be lost under contention")
}

func BenchmarkMemoryStore_Incr(b *testing.B) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < b.N; i++ {
		_, _ = store.Incr(ctx, "k", time.Hour)
	}
}
