// Package ratelimit provides the admission-control implementations backing
// the RateLimitService interface: a process-local in-memory limiter and a
// Redis-backed limiter for multi-instance deployments.
package ratelimit

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/receiptforge/receiptforge/internal/domain/service"
	"github.com/receiptforge/receiptforge/pkg/constants"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// windowEntry is one rate-limit counter: requests observed in the current
// window and the moment the window closes.
type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window rate limiter keyed by
// client identity and route. All table access is serialized by a single
// mutex; cardinality is bounded by distinct client-route pairs per window,
// so contention is negligible.
//
// State is lost on process restart. That under-limits briefly and is an
// accepted property, not a correctness bug. Deployments running several
// instances behind a load balancer should use RedisLimiter instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
	logger  logger.Logger
}

// NewMemoryLimiter creates an empty in-memory limiter.
func NewMemoryLimiter(log logger.Logger) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
		logger:  log.WithComponent("MemoryLimiter"),
	}
}

// Check records a request for the client-route pair and returns the
// admission decision. The check-and-record step is atomic with respect to
// concurrent calls for the same key.
//
// The function is total: an empty identity degrades to the "unknown"
// sentinel and non-positive quota values fall back to the documented
// defaults (10 requests per minute).
func (l *MemoryLimiter) Check(ctx context.Context, clientIdentity, routeKey string, quota service.Quota) (service.Decision, error) {
	if clientIdentity == "" {
		clientIdentity = constants.UnknownClientIdentity
	}
	if quota.MaxRequests <= 0 {
		quota.MaxRequests = constants.DefaultRateLimitMaxRequests
	}
	if quota.Window <= 0 {
		quota.Window = constants.DefaultRateLimitWindow
	}

	key := clientIdentity + ":" + routeKey

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]

	// First request for the key, or the window has elapsed: start a fresh
	// window with this request counted.
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(quota.Window)}
		return service.Decision{
			Allowed:   true,
			Remaining: quota.MaxRequests - 1,
			ResetAt:   now.Add(quota.Window),
		}, nil
	}

	entry.count++
	if entry.count > quota.MaxRequests {
		return service.Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    entry.resetAt,
			RetryAfter: entry.resetAt.Sub(now),
		}, nil
	}

	return service.Decision{
		Allowed:   true,
		Remaining: quota.MaxRequests - entry.count,
		ResetAt:   entry.resetAt,
	}, nil
}

// Sweep removes entries whose window has already closed and returns how
// many were removed. Correctness never depends on sweeping: expired entries
// are also detected and replaced lazily by Check.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep at the given interval until ctx is cancelled.
// A non-positive interval falls back to the default sweep interval.
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultRateLimitSweepInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := l.Sweep(); removed > 0 {
					l.logger.Debug(ctx, "swept expired rate limit entries",
						logger.Int("removed", removed),
						logger.Int("remaining", l.Len()),
					)
				}
			}
		}
	}()
}

// Len returns the current number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ClientIdentity derives the most trustworthy client identity available:
// the first entry of a forwarded-address header, then the host portion of
// the raw connection address, then the "unknown" sentinel. The result is
// never empty, keeping admission checks total.
func ClientIdentity(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	if remoteAddr != "" {
		if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
			return host
		}
		return remoteAddr
	}
	return constants.UnknownClientIdentity
}
