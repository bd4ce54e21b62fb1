package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/receiptforge/receiptforge/pkg/logger"
)

// LoadConfig loads the configuration from file and environment variables.
//
// When onReload is non-nil the config file is watched and every valid
// change is delivered to the callback as a fresh Config; an invalid change
// is logged and dropped, keeping the last good configuration live.
func LoadConfig(log logger.Logger, onReload func(*Config)) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/receiptforge/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("RECEIPTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if onReload != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			ctx := context.Background()
			var next Config
			if err := v.Unmarshal(&next); err != nil {
				log.Error(ctx, "config reload failed to unmarshal", err, logger.String("file", e.Name))
				return
			}
			if err := next.Validate(); err != nil {
				log.Error(ctx, "config reload rejected", err, logger.String("file", e.Name))
				return
			}
			log.Info(ctx, "configuration reloaded", logger.String("file", e.Name))
			onReload(&next)
		})
		v.WatchConfig()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "receiptforge")
	v.SetDefault("database.database", "receiptforge")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "receiptforge.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.use_redis", false)
	v.SetDefault("rate_limit.max_requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("rate_limit.sweep_interval_seconds", 300)

	v.SetDefault("cache.template_ttl_seconds", 60)
	v.SetDefault("cache.cleanup_interval_seconds", 300)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "receiptforge.events")
	v.SetDefault("kafka.batch_size", 100)

	v.SetDefault("vision.enabled", false)
	v.SetDefault("vision.base_url", "https://api.openai.com/v1")
	v.SetDefault("vision.model", "gpt-4o-mini")
	v.SetDefault("vision.timeout_seconds", 60)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.key_prefix", "uploads/")

	// Registered empty so the env binding exists; Validate rejects a blank
	// secret at startup.
	v.SetDefault("webhook.secret", "")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.timeout_seconds", 15)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "receiptforge")
	v.SetDefault("tracing.environment", "development")
}
