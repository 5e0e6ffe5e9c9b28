package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStore_Integration(t *testing.T) {
	opts := &redis.Options{
		Addr: "localhost:6379",
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: Redis not available (%v)", err)
	}

	store, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("Failed to create RedisStore: %v", err)
	}

	t.Run("BasicFlow", func(t *testing.T) {
		client := fmt.Sprintf("it_test_%d", time.Now().UnixNano())
		limit := NewRateLimit(store, "integration", client, 2, time.Minute)
		defer limit.Reset(ctx)

		usage, err := limit.Acquire(ctx)
		if err != nil {
			t.Fatalf("Redis error: %v", err)
		}
		if usage != 1 {
			t.Errorf("Expected usage 1, got %d", usage)
		}

		if _, err = limit.Acquire(ctx); err != nil {
			t.Fatal(err)
		}

		_, err = limit.Acquire(ctx)
		if !errors.Is(err, ErrLimitExceeded) {
			t.Errorf("Expected third request to be rejected, got %v", err)
		}
		var rejected *LimitExceededError
		if !errors.As(err, &rejected) {
			t.Fatalf("Expected *LimitExceededError, got %T", err)
		}
		if rejected.Usage != 3 {
			t.Errorf("Expected usage 3 on rejection, got %d", rejected.Usage)
		}
		if rejected.RetryAfter <= 0 {
			t.Error("Expected positive RetryAfter on rejection")
		}
	})

	t.Run("DistributedState", func(t *testing.T) {
		client := fmt.Sprintf("dist_test_%d", time.Now().UnixNano())

		// Two stores simulate two application instances sharing one budget.
		storeA, _ := NewRedisStore(redis.NewClient(opts))
		storeB, _ := NewRedisStore(redis.NewClient(opts))

		limitA := NewRateLimit(storeA, "integration", client, 1, time.Minute)
		limitB := NewRateLimit(storeB, "integration", client, 1, time.Minute)
		defer limitA.Reset(ctx)

		if _, err := limitA.Acquire(ctx); err != nil {
			t.Fatal(err)
		}

		_, err := limitB.Acquire(ctx)
		if !errors.Is(err, ErrLimitExceeded) {
			t.Error("Instance B should see the slot consumed by instance A")
		}
	})

	t.Run("WindowExpiry", func(t *testing.T) {
		client := fmt.Sprintf("exp_test_%d", time.Now().UnixNano())
		limit := NewRateLimit(store, "integration", client, 1, time.Second)
		defer limit.Reset(ctx)

		if _, err := limit.Acquire(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := limit.Acquire(ctx); !errors.Is(err, ErrLimitExceeded) {
			t.Fatalf("Expected immediate second request to be rejected, got %v", err)
		}

		time.Sleep(1100 * time.Millisecond)

		usage, err := limit.Acquire(ctx)
		if err != nil {
			t.Fatalf("Expected request after the window to be admitted: %v", err)
		}
		if usage != 1 {
			t.Errorf("Expected fresh bucket usage 1, got %d", usage)
		}
	})
}
