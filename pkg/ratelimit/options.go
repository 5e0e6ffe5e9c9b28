package ratelimit

import "time"

// StoreOption configures a RedisStore.
type StoreOption func(*RedisStore)

// WithPrefix sets the key prefix (default DefaultPrefix).
func WithPrefix(prefix string) StoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTimeout sets the per-operation deadline for Redis round-trips
// (default 5s).
func WithTimeout(timeout time.Duration) StoreOption {
	return func(s *RedisStore) {
		s.timeout = timeout
	}
}

// Option configures a RateLimit (directly or through a RateLimiter factory).
type Option func(*RateLimit)

// WithRecorder injects a custom metrics backend. The default is
// NoOpRecorder.
func WithRecorder(r MetricsRecorder) Option {
	return func(l *RateLimit) {
		l.recorder = r
	}
}

// SleepOption configures a SleepLimit.
type SleepOption func(*SleepLimit)

// WithDelayFunc replaces the StepDelay backoff policy.
func WithDelayFunc(f DelayFunc) SleepOption {
	return func(s *SleepLimit) {
		s.delay = f
	}
}
