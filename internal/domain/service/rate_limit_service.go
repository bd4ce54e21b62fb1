// Package service defines domain service interfaces implemented by the
// infrastructure layer.
package service

import (
	"context"
	"math"
	"time"
)

// Quota describes how many requests a single client may make against one
// route within a fixed window.
type Quota struct {
	// MaxRequests is the number of admitted requests per window.
	MaxRequests int

	// Window is the window length.
	Window time.Duration
}

// Decision is the outcome of an admission check.
type Decision struct {
	// Allowed reports whether the request is admitted.
	Allowed bool

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window closes.
	ResetAt time.Time

	// RetryAfter is how long the caller must wait before the next request
	// can be admitted. Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, the
// form surfaced in a Retry-After response header.
func (d Decision) RetryAfterSeconds() int {
	if d.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

// RateLimitService gates an inbound operation identified by client identity
// and route key against a quota.
//
// Implementations must make the check-and-record step atomic per composite
// key: two simultaneous requests for the same client and route must never
// both be admitted when exactly one should be denied. The check is total
// over its inputs; implementations substitute documented defaults for
// non-positive quota values.
type RateLimitService interface {
	Check(ctx context.Context, clientIdentity, routeKey string, quota Quota) (Decision, error)
}
