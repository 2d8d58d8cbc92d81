package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/config"
	"github.com/dmitrijs2005/portfolio/internal/client/session"
	"github.com/dmitrijs2005/portfolio/internal/client/storage"
	"github.com/dmitrijs2005/portfolio/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = "unknown"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Pinger reports server reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	api     *client.HTTPClient
	session *session.Manager
	health  Pinger
	logger  logging.Logger

	reader *bufio.Reader
	// out is shared by the REPL and the session hook, which runs on the
	// expiry ticker goroutine.
	out  *lockedWriter
	mode atomic.Value

	closers []io.Closer
}

// NewApp opens the local database, restores the session and connects the
// API client. Call Close when done.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, parseLevel(c.LogLevel))

	db, err := storage.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	hc, err := client.NewHealthChecker(c.HealthEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app, err := newApp(ctx, c, db, hc, logger, os.Stdin, os.Stdout)
	if err != nil {
		_ = hc.Close()
		_ = db.Close()
		return nil, err
	}
	app.closers = append(app.closers, hc, db)
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, health Pinger, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config: c,
		health: health,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    &lockedWriter{w: out},
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
	}
	a.mode.Store(ModeUnknown)

	m, err := session.New(ctx, a.api, storage.NewSessionStore(db), session.Options{
		InactivityTimeout: c.InactivityTimeout,
		CheckInterval:     c.SessionCheckInterval,
		Logger:            logger,
		OnUnauthenticated: a.onSessionEnded,
	})
	if err != nil {
		return nil, err
	}
	a.session = m
	a.api.Use(m)

	return a, nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// onSessionEnded is the "back to the login screen" reaction.
func (a *App) onSessionEnded(reason session.Reason) {
	switch reason {
	case session.ReasonExpired:
		fmt.Fprintln(a.out, "\nSession expired after inactivity. Please log in again.")
	case session.ReasonUnauthorized:
		fmt.Fprintln(a.out, "\nSession is no longer valid. Please log in again.")
	default:
		fmt.Fprintln(a.out, "Logged out.")
	}
}

func (a *App) setMode(mode Mode) {
	if prev := a.mode.Swap(mode); prev != mode {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	return a.mode.Load().(Mode)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// Run starts the background loops and blocks in the REPL until the user
// quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.session.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	fmt.Fprintln(a.out, "Portfolio CLI (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.reader))

	cancel()
	wg.Wait()
}

func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) prompt() string {
	who := "guest"
	if u := a.session.CurrentUser(); u != nil {
		who = u.Username
	}
	return fmt.Sprintf("%s@%s", who, a.Mode())
}

// StartOnlineStatusWatcher pings the health endpoint every interval and
// tracks the online/offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.health.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelWarn
	}
	return l
}
