package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptforge/receiptforge/pkg/logger"
)

func TestLoadConfigDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("RECEIPTFORGE_WEBHOOK_SECRET", "test-secret")
	t.Setenv("RECEIPTFORGE_SERVER_PORT", "9090")
	t.Setenv("RECEIPTFORGE_DATABASE_DRIVER", "sqlite")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(logger.NewNoopLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test-secret", cfg.Webhook.Secret)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, 300, cfg.RateLimit.SweepIntervalSeconds)
}

func TestLoadConfigRejectsBlankWebhookSecret(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig(logger.NewNoopLogger(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.secret")
}

func TestQuotaFor(t *testing.T) {
	cfg := RateLimitConfig{
		MaxRequests:   10,
		WindowSeconds: 60,
		Routes: map[string]RouteQuota{
			"contact": {MaxRequests: 3},
			"analyze": {MaxRequests: 5, WindowSeconds: 300},
		},
	}

	max, window := cfg.QuotaFor("templates")
	assert.Equal(t, 10, max)
	assert.Equal(t, time.Minute, window)

	max, window = cfg.QuotaFor("contact")
	assert.Equal(t, 3, max)
	assert.Equal(t, time.Minute, window)

	max, window = cfg.QuotaFor("analyze")
	assert.Equal(t, 5, max)
	assert.Equal(t, 5*time.Minute, window)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite"},
		Webhook:  WebhookConfig{Secret: "s"},
	}
	assert.NoError(t, valid.Validate())

	badDriver := valid
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	redisMismatch := valid
	redisMismatch.RateLimit.UseRedis = true
	assert.Error(t, redisMismatch.Validate())
}
