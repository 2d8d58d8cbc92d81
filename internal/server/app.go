// Package server wires the portfolio API together: configuration, logging,
// tracing, the user store, services, the HTTP router and the gRPC health
// endpoint, and runs them until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/httpapi"
	"github.com/dmitrijs2005/portfolio/internal/server/metrics"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/seed"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/dmitrijs2005/portfolio/internal/server/tracing"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/portfolio/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   *logging.ZerologLogger
	repos    repomanager.RepositoryManager
	tracing  tracing.ShutdownFunc
	http     *http.Server
	health   *gs.HealthServer
	draining atomic.Bool
}

// NewApp builds every component. The returned App owns the store
// connection; Run releases it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		Enabled:    c.TracingEnabled,
		Endpoint:   c.TracingEndpoint,
		SampleRate: c.TracingSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	repos, err := repomanager.New(ctx, c.StoreMode, c.DatabaseDSN)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("store init error: %w", err)
	}

	app := &App{config: c, logger: logger, repos: repos, tracing: shutdownTracing}

	if err := app.prepare(ctx); err != nil {
		app.release(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) prepare(ctx context.Context) error {
	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	seeded, err := seed.Load(app.config.SeedFile)
	if err != nil {
		return err
	}

	userService := services.NewUserService(app.repos.Users(), app.config, app.logger)

	n, err := seed.ApplyUsers(ctx, app.repos.Users(), userService.Hasher(), seeded.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		app.logger.Info(ctx, "Seeded users", "count", n)
	}

	projectService := services.NewProjectService(projects.NewMemoryRepository(seeded.Projects))
	m := metrics.New()

	deps := httpapi.RouterDeps{
		Handler:  httpapi.NewHandler(userService, projectService, m),
		Logger:   app.logger.Zerolog(),
		Metrics:  m,
		Store:    app.repos,
		Draining: &app.draining,
	}
	if app.config.RateLimitMax > 0 {
		deps.RateLimiter = httpapi.NewRateLimiter(app.config.RateLimitMax, app.config.RateLimitWindow)
	}
	router := httpapi.NewRouter(deps)

	app.http = &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.health = gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)

	app.logger.Info(ctx, "App configured",
		"store", app.config.StoreMode,
		"token_validity", app.config.TokenValidityDuration.String(),
		"projects", len(seeded.Projects),
	)
	return nil
}

func (app *App) release(ctx context.Context) {
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
	if err := app.tracing(ctx); err != nil {
		app.logger.Error(ctx, "tracing shutdown error", "error", err)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "Starting HTTP server", "address", app.http.Addr)
	if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "HTTP server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server error", "error", err)
		cancelFunc()
	}
}

// shutdown marks the app as draining, waits for load balancers to notice
// and then stops the HTTP server within the configured timeout.
func (app *App) shutdown() {
	ctx := context.Background()

	app.draining.Store(true)
	app.health.SetServing(false)

	if d := app.config.ReadinessDrainDelay; d > 0 {
		app.logger.Info(ctx, "Draining", "delay", d.String())
		time.Sleep(d)
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, app.config.ShutdownTimeout)
	defer cancel()
	if err := app.http.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "HTTP shutdown error", "error", err)
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	<-ctx.Done()
	app.shutdown()

	wg.Wait()
	app.release(context.Background())

	app.logger.Info(context.Background(), "App stopped")
}
