// Package middleware provides the Gin middleware chain: rate limiting and
// request observability.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/internal/domain/service"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/internal/infrastructure/ratelimit"
	"github.com/receiptforge/receiptforge/pkg/errors"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// QuotaRegistry resolves per-route quotas from the live rate limit
// configuration. Config hot-reloads swap the snapshot; in-flight requests
// keep reading the one they started with.
type QuotaRegistry struct {
	mu  sync.RWMutex
	cfg config.RateLimitConfig
}

// NewQuotaRegistry creates a registry seeded from the initial configuration.
func NewQuotaRegistry(cfg *config.RateLimitConfig) *QuotaRegistry {
	return &QuotaRegistry{cfg: *cfg}
}

// Update replaces the quota configuration. Called from the config reload
// callback.
func (r *QuotaRegistry) Update(cfg *config.RateLimitConfig) {
	r.mu.Lock()
	r.cfg = *cfg
	r.mu.Unlock()
}

// Enabled reports whether rate limiting is currently on.
func (r *QuotaRegistry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Enabled
}

// QuotaFor resolves the quota for a route key.
func (r *QuotaRegistry) QuotaFor(route string) service.Quota {
	r.mu.RLock()
	defer r.mu.RUnlock()
	maxRequests, window := r.cfg.QuotaFor(route)
	return service.Quota{MaxRequests: maxRequests, Window: window}
}

// RateLimit returns a middleware that gates each request on the quota for
// its route template. Clients are identified by forwarded-for or remote
// address. Limiter failures fail open: a broken limiter backend must not
// take the site down with it.
func RateLimit(limiter service.RateLimitService, quotas *QuotaRegistry, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !quotas.Enabled() {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		identity := ratelimit.ClientIdentity(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)

		decision, err := limiter.Check(c.Request.Context(), identity, route, quotas.QuotaFor(route))
		if err != nil {
			log.Error(c.Request.Context(), "rate limiter failed, admitting request", err,
				logger.String("route", route),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()
			metrics.RecordRateLimitDenial(route)
			log.Warn(c.Request.Context(), "rate limit exceeded",
				logger.String("route", route),
				logger.String("client", identity),
				logger.Int("retry_after_seconds", retryAfter),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.ErrorResponse(errors.ErrRateLimited(retryAfter), requestTraceID(c)))
			return
		}

		c.Next()
	}
}

// Contact submissions get a deliberately tight quota independent of the
// global configuration.
const (
	ContactMaxRequests = 3
	ContactWindow      = time.Minute
)

// ContactQuota is the fixed quota applied to the contact endpoint.
func ContactQuota() service.Quota {
	return service.Quota{MaxRequests: ContactMaxRequests, Window: ContactWindow}
}

// RateLimitFixed returns a middleware that applies one fixed quota to its
// route, bypassing the registry. Used for endpoints whose quota is policy,
// not configuration.
func RateLimitFixed(limiter service.RateLimitService, quota service.Quota, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		identity := ratelimit.ClientIdentity(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)

		decision, err := limiter.Check(c.Request.Context(), identity, route, quota)
		if err != nil {
			log.Error(c.Request.Context(), "rate limiter failed, admitting request", err,
				logger.String("route", route),
			)
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()
			metrics.RecordRateLimitDenial(route)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.ErrorResponse(errors.ErrRateLimited(retryAfter), requestTraceID(c)))
			return
		}

		c.Next()
	}
}
