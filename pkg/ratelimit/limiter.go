package ratelimit

import "time"

// RateLimiter produces RateLimit instances for many clients under one shared
// resource configuration. The factory itself holds no counters — every
// client's state lives in the Store under its own derived key, so exhausting
// one client never affects another.
type RateLimiter struct {
	store       Store
	resource    string
	maxRequests int64
	window      time.Duration
	opts        []Option
}

// NewRateLimiter fixes (resource, maxRequests, window) for a family of
// per-client limiters. A zero or negative window falls back to DefaultWindow.
func NewRateLimiter(store Store, resource string, maxRequests int64, window time.Duration, opts ...Option) *RateLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		store:       store,
		resource:    resource,
		maxRequests: maxRequests,
		window:      window,
		opts:        opts,
	}
}

// Limit returns the limiter for one client under this resource.
func (r *RateLimiter) Limit(client string) *RateLimit {
	return NewRateLimit(r.store, r.resource, client, r.maxRequests, r.window, r.opts...)
}
