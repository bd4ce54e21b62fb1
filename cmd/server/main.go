package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	appservice "github.com/receiptforge/receiptforge/internal/application/service"
	"github.com/receiptforge/receiptforge/internal/config"
	domainservice "github.com/receiptforge/receiptforge/internal/domain/service"
	"github.com/receiptforge/receiptforge/internal/infrastructure/cache"
	"github.com/receiptforge/receiptforge/internal/infrastructure/email"
	"github.com/receiptforge/receiptforge/internal/infrastructure/events"
	"github.com/receiptforge/receiptforge/internal/infrastructure/monitoring"
	"github.com/receiptforge/receiptforge/internal/infrastructure/persistence/gormdb"
	"github.com/receiptforge/receiptforge/internal/infrastructure/ratelimit"
	"github.com/receiptforge/receiptforge/internal/infrastructure/storage"
	"github.com/receiptforge/receiptforge/internal/infrastructure/vision"
	"github.com/receiptforge/receiptforge/internal/interfaces/http/handlers"
	"github.com/receiptforge/receiptforge/internal/interfaces/http/middleware"
	"github.com/receiptforge/receiptforge/internal/interfaces/http/router"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger for startup, replaced once config is loaded.
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		log.Fatalf("failed to create startup logger: %v", err)
	}

	// Quotas follow config hot-reloads; the registry is created before the
	// config so the reload callback can reference it.
	var quotas *middleware.QuotaRegistry

	cfg, err := config.LoadConfig(startupLogger, func(updated *config.Config) {
		if quotas != nil {
			quotas.Update(&updated.RateLimit)
		}
	})
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	quotas = middleware.NewQuotaRegistry(&cfg.RateLimit)

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	cleanup, err := monitoring.InitTracer(&cfg.Tracing)
	if err != nil {
		appLogger.Fatal(ctx, "failed to initialize tracer", err)
	}
	defer cleanup()

	metrics := monitoring.NewMetrics()

	db, err := gormdb.NewDBConnection(&cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "failed to connect to database", err)
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        cfg.Redis.Addresses,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatal(ctx, "failed to connect to Redis", err)
		}
	}

	var limiter domainservice.RateLimitService
	if cfg.RateLimit.UseRedis && redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, appLogger)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(appLogger)
		sweepInterval := time.Duration(cfg.RateLimit.SweepIntervalSeconds) * time.Second
		memLimiter.StartSweeper(ctx, sweepInterval)
		limiter = memLimiter
	}

	templateCache := cache.NewTemplateCache(
		time.Duration(cfg.Cache.TemplateTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
	)

	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka, appLogger)
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	visionClient := vision.NewOpenAIClient(&cfg.Vision, appLogger)

	var objectStore storage.ObjectStore
	if cfg.Storage.Enabled {
		objectStore, err = storage.NewS3Store(ctx, &cfg.Storage, appLogger)
		if err != nil {
			appLogger.Fatal(ctx, "failed to initialize object storage", err)
		}
	}

	var mailer email.Mailer = email.NoopMailer{}
	if cfg.Email.Enabled {
		mailer = email.NewHTTPMailer(&cfg.Email, appLogger)
	}

	// Repositories.
	templateRepo := gormdb.NewTemplateRepository(db, appLogger)
	blogRepo := gormdb.NewBlogPostRepository(db, appLogger)

	// Application services.
	templateSvc := appservice.NewTemplateAppService(templateRepo, templateCache, publisher, metrics, appLogger)
	generationSvc := appservice.NewGenerationAppService(visionClient, metrics, appLogger)
	blogSvc := appservice.NewBlogAppService(blogRepo, publisher, metrics, appLogger)
	contactSvc := appservice.NewContactAppService(mailer, &cfg.Email, metrics, appLogger)

	r := router.NewRouter(cfg, appLogger, router.Handlers{
		Health:     handlers.NewHealthHandler(db, redisClient, appLogger),
		Template:   handlers.NewTemplateHandler(templateSvc, appLogger),
		Generation: handlers.NewGenerationHandler(generationSvc, appLogger),
		Upload:     handlers.NewUploadHandler(objectStore, appLogger),
		Webhook:    handlers.NewWebhookHandler(blogSvc, cfg.Webhook.Secret, appLogger),
		Blog:       handlers.NewBlogHandler(blogSvc, appLogger),
		Contact:    handlers.NewContactHandler(contactSvc, appLogger),
	}, router.Middleware{
		Observability: middleware.Observability(monitoring.Tracer(), metrics),
		RateLimit:     middleware.RateLimit(limiter, quotas, metrics, appLogger),
		ContactLimit:  middleware.RateLimitFixed(limiter, middleware.ContactQuota(), metrics, appLogger),
	})

	if err := r.Start(); err != nil {
		appLogger.Fatal(ctx, "HTTP server failed", err)
	}
}
