package ratelimit

import (
	"context"
	"errors"
	"time"
)

// DefaultWindow is the window length used when none is configured. Tests and
// callers rely on this exact value: a bucket created with the default
// configuration resets one second after its first request.
const DefaultWindow = 1 * time.Second

// RateLimit enforces a fixed-window quota for one (resource, client) pair.
//
// The window is a fixed, non-sliding bucket: the first request of a bucket
// starts its clock, usage accumulates for the window length, and then the
// bucket expires and usage drops back to zero all at once. Admission is a
// step function of the bucket's age, not a continuously decaying rate.
//
// A RateLimit holds no counters itself; all state lives in the Store under a
// key derived from (resource, client, window). Any process holding the same
// configuration and store observes the same bucket.
type RateLimit struct {
	store       Store
	resource    string
	client      string
	maxRequests int64
	window      time.Duration
	recorder    MetricsRecorder
}

// NewRateLimit constructs a limiter for the (resource, client) pair allowing
// maxRequests per window. A zero or negative window falls back to
// DefaultWindow.
func NewRateLimit(store Store, resource, client string, maxRequests int64, window time.Duration, opts ...Option) *RateLimit {
	if window <= 0 {
		window = DefaultWindow
	}
	l := &RateLimit{
		store:       store,
		resource:    resource,
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		recorder:    &NoOpRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// key identifies this limiter's current bucket. The window length is part of
// the key, so the same pair limited under two different windows counts in two
// independent buckets.
func (l *RateLimit) key() string {
	return l.resource + ":" + l.client + ":" + l.window.String()
}

// Acquire counts one request against the current window and reports the
// usage after the increment. When that usage exceeds the configured maximum
// it returns a *LimitExceededError carrying the usage and a retry hint.
//
// The increment is unconditional: a rejected call still counts toward the
// window and toward every later caller's decision, so usage can grow past
// the maximum for as long as the bucket lives.
func (l *RateLimit) Acquire(ctx context.Context) (int64, error) {
	start := time.Now()
	usage, err := l.store.Incr(ctx, l.key(), l.window)
	l.recorder.Observe(metricStoreLatency, time.Since(start).Seconds(), map[string]string{
		"resource": l.resource,
	})
	if err != nil {
		return 0, &StoreError{Err: err}
	}

	allowed := usage <= l.maxRequests
	l.recorder.Add(metricAcquire, 1, map[string]string{
		"resource": l.resource,
		"allowed":  boolTag(allowed),
	})
	if !allowed {
		return 0, &LimitExceededError{Usage: usage, RetryAfter: l.reachedWait(ctx)}
	}
	return usage, nil
}

// Usage reports the current window's counter without incrementing it.
// Returns 0 when no bucket exists yet.
func (l *RateLimit) Usage(ctx context.Context) (int64, error) {
	usage, err := l.store.Usage(ctx, l.key())
	if err != nil {
		return 0, &StoreError{Err: err}
	}
	return usage, nil
}

// Reached reports whether usage has reached the configured maximum.
func (l *RateLimit) Reached(ctx context.Context) (bool, error) {
	usage, err := l.Usage(ctx)
	if err != nil {
		return false, err
	}
	return usage >= l.maxRequests, nil
}

// WaitTime estimates how long a caller should wait before its next request
// is likely to be admitted.
//
// Below the limit it is window/maxRequests, the even-spacing interval at
// which requests could flow indefinitely without ever hitting the limit. At
// the limit it is the bucket's remaining lifetime, shrinking as the window
// ages, with the full window as a fallback when the store reports no expiry.
func (l *RateLimit) WaitTime(ctx context.Context) (time.Duration, error) {
	reached, err := l.Reached(ctx)
	if err != nil {
		return 0, err
	}
	if !reached {
		return l.window / time.Duration(l.maxRequests), nil
	}
	return l.reachedWait(ctx), nil
}

// reachedWait is the limit-reached branch of WaitTime. A TTL lookup failure
// degrades to the full window rather than masking the admission decision the
// caller already has.
func (l *RateLimit) reachedWait(ctx context.Context) time.Duration {
	ttl, err := l.store.TTL(ctx, l.key())
	if err != nil || ttl <= 0 {
		return l.window
	}
	return ttl
}

// Reset deletes the current window's counter. It exists for test isolation
// and operator intervention; the steady-state admission path never calls it.
func (l *RateLimit) Reset(ctx context.Context) error {
	if err := l.store.Delete(ctx, l.key()); err != nil {
		return &StoreError{Err: err}
	}
	return nil
}

// Do runs fn inside an acquisition. On admission fn receives the
// post-increment usage; on rejection fn never runs and the
// *LimitExceededError propagates. The increment is not rolled back when fn
// fails — the request was already counted on entry.
func (l *RateLimit) Do(ctx context.Context, fn func(usage int64) error) error {
	usage, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	return fn(usage)
}

// Wrap returns fn guarded by this limiter: each invocation acquires first
// and only calls fn when admitted.
func (l *RateLimit) Wrap(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return l.Do(ctx, func(int64) error {
			return fn(ctx)
		})
	}
}

// IsLimitExceeded reports whether err is a rejection rather than a store
// failure or other fault.
func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
