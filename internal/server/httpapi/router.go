package httpapi

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/dmitrijs2005/portfolio/internal/server/tracing"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps carries everything NewRouter wires together. Metrics, Store
// and RateLimiter are optional.
type RouterDeps struct {
	Handler     *Handler
	Logger      zerolog.Logger
	Metrics     MetricsProvider
	Store       Pinger
	Draining    *atomic.Bool
	RateLimiter *RateLimiter
}

// MetricsProvider is implemented by *metrics.Metrics.
type MetricsProvider interface {
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}

// NewRouter builds the gin engine with its middleware chain and routes.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		d.Logger.Error().
			Interface("panic", rec).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Something went wrong!",
			Code:    CodeInternal,
		})
	}))
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(LoggingMiddleware(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	draining := d.Draining
	if draining == nil {
		draining = &atomic.Bool{}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// /ready fails once shutdown starts, or while the store is unreachable.
	r.GET("/ready", func(c *gin.Context) {
		if draining.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		if d.Store != nil {
			if err := d.Store.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := d.Handler

	api := r.Group("/api")
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Middleware())
	}
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.RequireAuth(), h.Me)

		protected := api.Group("", h.RequireAuth())
		protected.GET("/projects", h.Projects)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Route not found", Code: CodeNotFound})
	})

	return r
}
