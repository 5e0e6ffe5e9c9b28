package ratelimit

import (
	"context"
	"errors"
	"time"
)

// DelayFunc maps the usage reported by a rejection to how long the caller
// sleeps before proceeding anyway.
type DelayFunc func(usage int64) time.Duration

// StepDelay is the default backoff policy: base multiplied by usage
// integer-divided by maxRequests+1. The delay is a monotone non-decreasing
// step function of accumulated usage — a caller hammering an exhausted
// window sees base, base, ... then 2*base, and so on — and it deliberately
// ignores window boundaries, so rapid repeated calls get predictable bounded
// pauses instead of waiting out a possibly long window.
func StepDelay(base time.Duration, maxRequests int64) DelayFunc {
	return func(usage int64) time.Duration {
		return base * time.Duration(usage/(maxRequests+1))
	}
}

// SleepLimit wraps a RateLimit so that the guarded operation always
// eventually runs. An admitted call proceeds immediately; a rejected call
// sleeps for the policy's delay and then proceeds. Rejections are never
// surfaced to the caller — only store failures and the caller's own context
// cancellation are.
type SleepLimit struct {
	limit *RateLimit
	delay DelayFunc
}

// NewSleepLimit wraps limit with the StepDelay policy scaled by baseDelay.
// The exact growth rule is a policy decision; swap it with WithDelayFunc.
func NewSleepLimit(limit *RateLimit, baseDelay time.Duration, opts ...SleepOption) *SleepLimit {
	s := &SleepLimit{
		limit: limit,
		delay: StepDelay(baseDelay, limit.maxRequests),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs fn, sleeping first when the window is exhausted. fn receives the
// post-increment usage either way. The sleep is cut short by ctx, in which
// case fn does not run and ctx's error is returned.
func (s *SleepLimit) Do(ctx context.Context, fn func(usage int64) error) error {
	usage, err := s.limit.Acquire(ctx)
	if err != nil {
		var rejected *LimitExceededError
		if !errors.As(err, &rejected) {
			return err
		}
		if err := sleep(ctx, s.delay(rejected.Usage)); err != nil {
			return err
		}
		usage = rejected.Usage
	}
	return fn(usage)
}

// Wrap returns fn guarded by this limiter: each invocation either runs
// immediately or after the policy's delay, never failing with a rejection.
func (s *SleepLimit) Wrap(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.Do(ctx, func(int64) error {
			return fn(ctx)
		})
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
