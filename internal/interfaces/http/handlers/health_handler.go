package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/receiptforge/receiptforge/internal/infrastructure/persistence/gormdb"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// HealthHandler provides liveness and readiness endpoints.
type HealthHandler struct {
	db     *gormdb.DBConnection
	redis  redis.UniversalClient
	logger logger.Logger
}

// NewHealthHandler creates a HealthHandler. The redis client may be nil
// when the Redis backend is disabled.
func NewHealthHandler(db *gormdb.DBConnection, redisClient redis.UniversalClient, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: log,
	}
}

// Live handles GET /health/live. The process is up; nothing else is
// checked.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Ready handles GET /health/ready. Dependencies are probed concurrently;
// any failure flips the response to 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := h.performChecks(ctx)

	status := "ready"
	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	var (
		mu     sync.Mutex
		checks = make(map[string]string)
	)

	record := func(name, result string) {
		mu.Lock()
		checks[name] = result
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error(ctx, "database health check failed", err)
			record("database", "unreachable")
			return nil
		}
		record("database", "ok")
		return nil
	})

	if h.redis != nil {
		g.Go(func() error {
			if err := h.redis.Ping(ctx).Err(); err != nil {
				h.logger.Error(ctx, "redis health check failed", err)
				record("redis", "unreachable")
				return nil
			}
			record("redis", "ok")
			return nil
		})
	}

	_ = g.Wait()
	return checks
}
