package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/receiptforge/receiptforge/internal/domain/service"
	"github.com/receiptforge/receiptforge/pkg/constants"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// keyPrefix namespaces rate limit counters in Redis.
const keyPrefix = "ratelimit:"

// fixedWindowScript atomically counts a request within the key's current
// window. The counter expires when the window closes; a counter that lost
// its TTL (e.g. after a Redis restart) gets a fresh window rather than
// living forever.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter implements the same fixed-window admission contract as
// MemoryLimiter on a shared Redis instance, making quotas correct across
// several service instances. Expired counters are collected by Redis key
// expiry, so no sweeper is needed.
type RedisLimiter struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client redis.UniversalClient, log logger.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		logger: log.WithComponent("RedisLimiter"),
	}
}

// Check records a request for the client-route pair and returns the
// admission decision. On a Redis failure it returns an admitting decision
// together with the error so callers can fail open.
func (l *RedisLimiter) Check(ctx context.Context, clientIdentity, routeKey string, quota service.Quota) (service.Decision, error) {
	if clientIdentity == "" {
		clientIdentity = constants.UnknownClientIdentity
	}
	if quota.MaxRequests <= 0 {
		quota.MaxRequests = constants.DefaultRateLimitMaxRequests
	}
	if quota.Window <= 0 {
		quota.Window = constants.DefaultRateLimitWindow
	}

	key := keyPrefix + clientIdentity + ":" + routeKey

	result, err := fixedWindowScript.Run(ctx, l.client, []string{key}, quota.Window.Milliseconds()).Int64Slice()
	if err != nil || len(result) != 2 {
		l.logger.Error(ctx, "rate limit script failed", err, logger.String("key", key))
		return service.Decision{Allowed: true}, err
	}

	count, ttlMillis := result[0], result[1]
	resetAt := time.Now().Add(time.Duration(ttlMillis) * time.Millisecond)

	if count > int64(quota.MaxRequests) {
		return service.Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: time.Duration(ttlMillis) * time.Millisecond,
		}, nil
	}

	return service.Decision{
		Allowed:   true,
		Remaining: quota.MaxRequests - int(count),
		ResetAt:   resetAt,
	}, nil
}
