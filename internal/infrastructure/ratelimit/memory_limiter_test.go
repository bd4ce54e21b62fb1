package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptforge/receiptforge/internal/domain/service"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

func newTestLimiter(now *time.Time) *MemoryLimiter {
	l := NewMemoryLimiter(logger.NewNoopLogger())
	l.now = func() time.Time { return *now }
	return l
}

func TestMemoryLimiterAdmissionMonotonicity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	quota := service.Quota{MaxRequests: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Check(ctx, "1.2.3.4", "/api/x", quota)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.Check(ctx, "1.2.3.4", "/api/x", quota)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.GreaterOrEqual(t, d.RetryAfterSeconds(), 0)
	assert.LessOrEqual(t, d.RetryAfterSeconds(), 60)
}

func TestMemoryLimiterRetryAfterRoundsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	quota := service.Quota{MaxRequests: 1, Window: time.Minute}
	ctx := context.Background()

	_, err := l.Check(ctx, "a", "/x", quota)
	require.NoError(t, err)

	// 30.5s into the window, 29.5s remain: Retry-After must say 30.
	now = now.Add(30*time.Second + 500*time.Millisecond)
	d, err := l.Check(ctx, "a", "/x", quota)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	assert.Equal(t, 30, d.RetryAfterSeconds())
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	quota := service.Quota{MaxRequests: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := l.Check(ctx, "a", "/x", quota)
		require.NoError(t, err)
	}
	d, _ := l.Check(ctx, "a", "/x", quota)
	require.False(t, d.Allowed)

	// After the window passes, the next request resets the count to 1 and
	// is admitted regardless of prior denial state.
	now = now.Add(61 * time.Second)
	d, err := l.Check(ctx, "a", "/x", quota)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestMemoryLimiterKeyIsolation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	quota := service.Quota{MaxRequests: 1, Window: time.Minute}
	ctx := context.Background()

	d, _ := l.Check(ctx, "A", "/x", quota)
	require.True(t, d.Allowed)
	d, _ = l.Check(ctx, "A", "/x", quota)
	require.False(t, d.Allowed)

	// Exhausting ("A", "/x") affects neither ("A", "/y") nor ("B", "/x").
	d, _ = l.Check(ctx, "A", "/y", quota)
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, "B", "/x", quota)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterSweepSafety(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	quota := service.Quota{MaxRequests: 2, Window: time.Minute}
	ctx := context.Background()

	l.Check(ctx, "a", "/x", quota)
	l.Check(ctx, "b", "/x", quota)
	require.Equal(t, 2, l.Len())

	// Nothing expired yet.
	assert.Equal(t, 0, l.Sweep())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Sweep())
	assert.Equal(t, 0, l.Len())

	// After the sweep, the key behaves like a first-ever request.
	d, err := l.Check(ctx, "a", "/x", quota)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestMemoryLimiterDefaultsAndSentinel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(&now)
	ctx := context.Background()

	// Zero quota falls back to 10 per minute; empty identity degrades to
	// the sentinel rather than failing.
	for i := 0; i < 10; i++ {
		d, err := l.Check(ctx, "", "/x", service.Quota{})
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i+1)
	}
	d, err := l.Check(ctx, "", "/x", service.Quota{})
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// The sentinel shares one composite key.
	require.Equal(t, 1, l.Len())
}

func TestMemoryLimiterConcurrentChecksSameKey(t *testing.T) {
	l := NewMemoryLimiter(logger.NewNoopLogger())
	quota := service.Quota{MaxRequests: 50, Window: time.Minute}
	ctx := context.Background()

	const goroutines = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Check(ctx, "10.0.0.1", "/api/x", quota)
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly MaxRequests of the racing requests may be admitted.
	assert.Equal(t, 50, admitted)
}

func TestStartSweeperStopsOnCancel(t *testing.T) {
	l := NewMemoryLimiter(logger.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	l.StartSweeper(ctx, 10*time.Millisecond)
	l.Check(ctx, "a", "/x", service.Quota{MaxRequests: 1, Window: time.Millisecond})

	// Give the sweeper a few ticks to collect the expired entry.
	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 10*time.Millisecond)
	cancel()
}

func TestClientIdentity(t *testing.T) {
	cases := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{"forwarded single", "203.0.113.7", "10.0.0.1:443", "203.0.113.7"},
		{"forwarded chain uses first", "203.0.113.7, 70.1.2.3", "10.0.0.1:443", "203.0.113.7"},
		{"forwarded with spaces", "  203.0.113.7 ,70.1.2.3", "10.0.0.1:443", "203.0.113.7"},
		{"falls back to remote host", "", "10.0.0.1:58822", "10.0.0.1"},
		{"remote without port", "", "10.0.0.1", "10.0.0.1"},
		{"nothing available", "", "", "unknown"},
		{"forwarded only commas", ",,", "", "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClientIdentity(tc.forwardedFor, tc.remoteAddr))
		})
	}
}
