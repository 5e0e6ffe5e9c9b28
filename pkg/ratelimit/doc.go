// Package ratelimit enforces a maximum request rate per (resource, client)
// pair across any number of independent processes, coordinating through a
// shared counter store.
//
// The primary entry point is RateLimit:
//
//	usage, err := limit.Acquire(ctx)
//
// On admission Acquire returns the usage after counting the call; on
// rejection it returns a *LimitExceededError carrying the usage and a
// retry hint.
//
// # Overview
//
// This package implements a fixed window counter:
//
//   - Each (resource, client) pair has a counter bucket in the store.
//   - The first request of a bucket creates it at 1 and starts its expiry
//     clock, set to the window length and never extended afterwards.
//   - Every request increments the counter, admitted or not; when the
//     counter exceeds the maximum, requests are rejected until the bucket
//     expires and usage drops back to zero.
//
// Unlike token buckets or sliding windows, admission is a step function of
// the bucket's age: a burst that fills the window stays rejected until the
// full window has elapsed since the bucket's first request, and then the
// next request is admitted immediately.
//
// # Core Types
//
// RateLimit is the decision engine for one (resource, client) pair:
//
//   - resource: a named quota domain shared by many clients (for example,
//     an API route)
//   - client: the identity being limited within that resource (for example,
//     an account or IP)
//   - maxRequests: admitted calls per window
//   - window: the bucket lifetime (DefaultWindow when unset)
//
// RateLimiter holds (resource, maxRequests, window) fixed and mints a
// RateLimit per client, each with an independent bucket.
//
// SleepLimit wraps a RateLimit so the guarded operation always eventually
// runs: rejections turn into a usage-derived sleep instead of an error.
//
// # Backends
//
// The Store interface needs four operations: atomic increment with
// first-write expiry, a plain read, a remaining-TTL query, and a delete.
// Two implementations ship with the package:
//
//   - MemoryStore: an in-process store backed by a Go map. Useful for unit
//     tests, local development, and single-instance deployments. Its state
//     is local to the process, so it cannot enforce a global limit across
//     replicas.
//
//   - RedisStore: a distributed store. The increment runs as a Lua script
//     so INCR and the first-write PEXPIRE are one atomic step, which makes
//     it safe for many application instances to share one budget per pair.
//
// Any backend with atomic increment and TTL semantics qualifies; the store's
// atomicity is the only correctness dependency this package has on its
// environment. The store is also the authority for time: buckets expire on
// the store's clock, so processes with drifting local clocks still agree on
// window boundaries.
//
// # Context and Error Policy
//
// Every operation takes a context.Context, passed through to the store so
// callers can enforce deadlines and cancel work. SleepLimit's sleep is cut
// short by context cancellation as well.
//
// Rejections match ErrLimitExceeded via errors.Is and are control flow, not
// faults: this package never logs them and callers are expected to react by
// policy (reject upstream, queue, or sleep). Store failures match
// ErrStoreUnavailable and are surfaced immediately without internal
// retries — admission cannot be safely decided without the store, and retry
// policy belongs to the caller or the store client.
//
// # Wait Hints
//
// WaitTime estimates how long to wait before the next request is likely to
// be admitted. Below the limit it is window/maxRequests, the even-spacing
// interval at which requests never hit the limit. At the limit it is the
// bucket's remaining TTL — the time until usage resets to zero — falling
// back to the full window when the store reports no expiry.
//
// # Guard Forms
//
// Beyond explicit Acquire, both limiters offer a scoped form and a wrapper
// form built on the same acquisition path:
//
//	err := limit.Do(ctx, func(usage int64) error { ... })
//	guarded := limit.Wrap(operation)
//
// Do passes the post-increment usage to the body and never runs it on
// rejection; the increment is not rolled back when the body fails. Wrap
// returns the operation with the same check performed before every
// invocation.
//
// # Configuration
//
// RedisStore uses functional options:
//
//	store, _ := ratelimit.NewRedisStore(client,
//		ratelimit.WithPrefix("myapp:rate:"),
//		ratelimit.WithTimeout(2*time.Second),
//	)
//
// Limiters accept WithRecorder to inject a metrics backend (a Prometheus
// implementation is included), and SleepLimit accepts WithDelayFunc to
// replace the default StepDelay backoff policy.
package ratelimit
