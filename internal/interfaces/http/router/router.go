// Package router assembles the Gin engine, routes and HTTP server.
package router

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/receiptforge/receiptforge/internal/application/dto"
	"github.com/receiptforge/receiptforge/internal/config"
	"github.com/receiptforge/receiptforge/internal/interfaces/http/handlers"
	"github.com/receiptforge/receiptforge/pkg/logger"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Health     *handlers.HealthHandler
	Template   *handlers.TemplateHandler
	Generation *handlers.GenerationHandler
	Upload     *handlers.UploadHandler
	Webhook    *handlers.WebhookHandler
	Blog       *handlers.BlogHandler
	Contact    *handlers.ContactHandler
}

// Middleware bundles the middleware chain pieces the router installs.
type Middleware struct {
	Observability gin.HandlerFunc
	RateLimit     gin.HandlerFunc
	ContactLimit  gin.HandlerFunc
}

// Router owns the Gin engine and HTTP server lifecycle.
type Router struct {
	engine   *gin.Engine
	config   *config.Config
	logger   logger.Logger
	handlers Handlers
	mw       Middleware
	server   *http.Server
}

// NewRouter creates the router with its handlers and middleware.
func NewRouter(cfg *config.Config, log logger.Logger, h Handlers, mw Middleware) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{
		engine:   gin.New(),
		config:   cfg,
		logger:   log,
		handlers: h,
		mw:       mw,
	}
}

// SetupRoutes installs the middleware chain and all routes.
func (r *Router) SetupRoutes() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterCustomValidators(v); err != nil {
			r.logger.Error(context.Background(), "failed to register custom validators", err)
		}
	}

	r.engine.Use(gin.Recovery())
	r.engine.Use(r.mw.Observability)

	corsConfig := cors.Config{
		AllowOrigins:  r.config.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Webhook-Signature"},
		ExposeHeaders: []string{"Retry-After", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	r.engine.Use(cors.New(corsConfig))

	r.engine.GET("/health/live", r.handlers.Health.Live)
	r.engine.GET("/health/ready", r.handlers.Health.Ready)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Server.PprofEnabled {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.mw.RateLimit)
	{
		templates := v1.Group("/templates")
		{
			templates.POST("", r.handlers.Template.Create)
			templates.GET("", r.handlers.Template.List)
			templates.GET("/:slug", r.handlers.Template.GetBySlug)
			templates.PUT("/:id", r.handlers.Template.Update)
			templates.DELETE("/:id", r.handlers.Template.Delete)
			templates.POST("/:id/sections", r.handlers.Template.AddSection)
			templates.PUT("/:id/sections/order", r.handlers.Template.ReorderSections)
			templates.PUT("/:id/sections/:section_id", r.handlers.Template.UpdateSectionField)
			templates.DELETE("/:id/sections/:section_id", r.handlers.Template.DeleteSection)
		}

		v1.POST("/generate/analyze", r.handlers.Generation.Analyze)
		v1.POST("/uploads/logo", r.handlers.Upload.UploadLogo)
		v1.POST("/webhooks/blog", r.handlers.Webhook.BlogWebhook)

		blog := v1.Group("/blog")
		{
			blog.GET("/posts", r.handlers.Blog.ListPosts)
			blog.GET("/posts/:slug", r.handlers.Blog.GetPost)
		}

		v1.POST("/contact", r.mw.ContactLimit, r.handlers.Contact.Submit)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Start runs the HTTP server until a shutdown signal arrives.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "starting HTTP server", logger.String("address", addr))

	go r.gracefulShutdown()

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (r *Router) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	r.logger.Info(context.Background(), "shutting down HTTP server")

	timeout := time.Duration(r.config.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(context.Background(), "server forced to shut down", err)
	}
}

// Stop shuts the server down. Safe to call before Start.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

// Engine exposes the underlying engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
