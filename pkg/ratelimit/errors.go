package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// ErrLimitExceeded is the sentinel every rejection matches via errors.Is.
// Rejections are expected under load and are control flow, not faults:
// callers react by retrying later, queueing, or using SleepLimit.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// ErrStoreUnavailable is the sentinel every store failure matches via
// errors.Is. Admission cannot be decided without the store, so these are
// surfaced immediately; retry policy belongs to the caller, not the limiter.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")

var errBadScriptReply = errors.New("unexpected counter script reply")

// LimitExceededError reports a rejected acquisition. Usage is the counter
// value at the time of rejection; it is not capped at the configured maximum,
// since rejected calls keep incrementing the window's counter. RetryAfter is
// the same advisory hint WaitTime reports.
type LimitExceededError struct {
	Usage      int64
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: usage %d, retry after %s", e.Usage, e.RetryAfter)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// StoreError wraps a failure from the Store so callers can match both
// ErrStoreUnavailable and the underlying cause (for example
// context.DeadlineExceeded) with errors.Is.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "rate limit store: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
