// Package session owns the CLI's authentication state: the current
// credential and user, idle expiry, and the reaction to 401 answers.
//
// A Manager is registered as an interceptor on the API client, so every
// request to /api/ carries the credential and every answer is inspected.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/models"
	"github.com/dmitrijs2005/portfolio/internal/client/storage"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/logging"
)

const (
	DefaultInactivityTimeout = 24 * time.Hour
	DefaultCheckInterval     = time.Minute
)

// ErrNotAuthenticated is returned by operations that need an active session.
var ErrNotAuthenticated = errors.New("not logged in")

// Reason tells the unauthenticated hook why the session ended.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonExpired      Reason = "expired"
	ReasonUnauthorized Reason = "unauthorized"
)

// API is the part of the HTTP client the manager drives.
type API interface {
	Register(ctx context.Context, p models.Profile) (*client.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.UserSummary, error)
}

// Store is the durable copy of the session. *storage.SessionStore
// implements it. SaveUser, Touch and Clear are scoped to the session
// holding token, so a write that lands after an invalidation cannot bring
// back keys of the ended session.
type Store interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	SaveUser(ctx context.Context, token string, u *models.UserSummary) error
	Touch(ctx context.Context, token string, at time.Time) error
	Clear(ctx context.Context, token string) error
}

type Options struct {
	InactivityTimeout time.Duration
	CheckInterval     time.Duration
	Logger            logging.Logger
	// OnUnauthenticated runs after the session was cleared, outside any lock.
	OnUnauthenticated func(Reason)
	Now               func() time.Time
}

type Manager struct {
	api   API
	store Store

	timeout  time.Duration
	interval time.Duration
	logger   logging.Logger
	onUnauth func(Reason)
	now      func() time.Time

	mu      sync.RWMutex
	session models.Session
}

// New restores the persisted session. A stored credential without a
// readable user is discarded and the manager starts anonymous.
func New(ctx context.Context, api API, store Store, opts Options) (*Manager, error) {
	m := &Manager{
		api:      api,
		store:    store,
		timeout:  opts.InactivityTimeout,
		interval: opts.CheckInterval,
		logger:   opts.Logger,
		onUnauth: opts.OnUnauthenticated,
		now:      opts.Now,
	}
	if m.timeout <= 0 {
		m.timeout = DefaultInactivityTimeout
	}
	if m.interval <= 0 {
		m.interval = DefaultCheckInterval
	}
	if m.logger == nil {
		m.logger = logging.Nop{}
	}
	m.logger = m.logger.With("module", "session")
	if m.now == nil {
		m.now = time.Now
	}

	s, err := store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptSession):
		m.logger.Warn(ctx, "discarding unreadable stored session", "error", err)
		if err := store.Clear(ctx, ""); err != nil {
			return nil, fmt.Errorf("clear corrupt session: %w", err)
		}
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	if !s.Active() {
		return m, nil
	}
	if s.LastActivity.IsZero() {
		s.LastActivity = m.now()
		if err := store.Touch(ctx, s.Token, s.LastActivity); err != nil {
			m.logger.Warn(ctx, "could not persist activity", "error", err)
		}
	}
	m.session = s

	m.CheckExpiry(ctx, m.now())
	return m, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}
	return m.establish(ctx, res)
}

// Register creates the account and logs it in.
func (m *Manager) Register(ctx context.Context, p models.Profile) (models.Session, error) {
	res, err := m.api.Register(ctx, p)
	if err != nil {
		return models.Session{}, err
	}
	return m.establish(ctx, res)
}

// establish persists first and only then replaces the in-memory session,
// so a storage failure leaves the previous state intact.
func (m *Manager) establish(ctx context.Context, res *client.AuthResponse) (models.Session, error) {
	if res.Token == "" || res.User.ID == "" {
		return models.Session{}, errors.New("server returned an incomplete session")
	}

	user := res.User
	s := models.Session{Token: res.Token, User: &user, LastActivity: m.now()}

	if err := m.store.Save(ctx, s); err != nil {
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	m.logger.Info(ctx, "session started", "user_id", user.ID)
	return copySession(s), nil
}

// Logout tells the server (best effort) and always ends the local session.
func (m *Manager) Logout(ctx context.Context) {
	if m.IsAuthenticated() {
		if err := m.api.Logout(ctx); err != nil {
			m.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}
	m.invalidate(ctx, ReasonLogout, "")
}

// AttachAuth returns req with the bearer credential when the session is
// active and req targets the API (the login endpoint excepted). Otherwise
// req is returned as is. req itself is never modified.
func (m *Manager) AttachAuth(req *http.Request) *http.Request {
	if !needsAuth(req) {
		return req
	}

	token := m.Token()
	if token == "" {
		return req
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	return r
}

// InterceptResponse ends the session on a 401 from anything but the login
// endpoint, and counts a successful authenticated call as activity.
func (m *Manager) InterceptResponse(req *http.Request, resp *http.Response) *http.Response {
	if resp == nil || req == nil || isLogin(req) {
		return resp
	}

	ctx := req.Context()
	sent := strings.TrimPrefix(req.Header.Get(common.AuthorizationHeader), common.BearerPrefix)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		m.invalidate(context.WithoutCancel(ctx), ReasonUnauthorized, sent)
	case resp.StatusCode >= 200 && resp.StatusCode < 300 && sent != "":
		m.TouchActivity(context.WithoutCancel(ctx))
	}
	return resp
}

// CheckExpiry ends the session when it has been idle longer than the
// inactivity timeout.
func (m *Manager) CheckExpiry(ctx context.Context, now time.Time) {
	m.mu.RLock()
	active := m.session.Active()
	last := m.session.LastActivity
	token := m.session.Token
	m.mu.RUnlock()

	if active && now.Sub(last) > m.timeout {
		m.logger.Info(ctx, "session expired", "idle", now.Sub(last).Round(time.Second).String())
		m.invalidate(ctx, ReasonExpired, token)
	}
}

// TouchActivity records now as the last activity of an active session.
func (m *Manager) TouchActivity(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	if !m.session.Active() {
		m.mu.Unlock()
		return
	}
	m.session.LastActivity = now
	token := m.session.Token
	m.mu.Unlock()

	if err := m.store.Touch(ctx, token, now); err != nil {
		m.logger.Warn(ctx, "could not persist activity", "error", err)
	}
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Active()
}

// CurrentUser returns a copy of the cached user, or nil when anonymous.
func (m *Manager) CurrentUser() *models.UserSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Active() {
		return nil
	}
	u := *m.session.User
	return &u
}

func (m *Manager) HasRole(role string) bool {
	u := m.CurrentUser()
	return u != nil && u.Role == role
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// Session returns a copy of the current state.
func (m *Manager) Session() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.session)
}

// RefreshUser reloads the user from the server and updates the cache.
func (m *Manager) RefreshUser(ctx context.Context) (*models.UserSummary, error) {
	token := m.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u, err := m.api.Me(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.session.Token != token {
		// logged out or switched user while the call was in flight
		m.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	user := *u
	m.session.User = &user
	m.mu.Unlock()

	if err := m.store.SaveUser(ctx, token, &user); err != nil {
		m.logger.Warn(ctx, "could not persist refreshed user", "error", err)
	}
	return u, nil
}

// Run evaluates expiry every check interval until ctx is done, then records
// a final activity timestamp.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.TouchActivity(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			m.CheckExpiry(ctx, m.now())
		}
	}
}

// invalidate clears the session in memory and storage. When sentToken is
// set, only a session still holding that credential is cleared, so a late
// 401 cannot end a newer login. The hook fires only if a session ended.
func (m *Manager) invalidate(ctx context.Context, reason Reason, sentToken string) {
	m.mu.Lock()
	if sentToken != "" && m.session.Token != sentToken {
		m.mu.Unlock()
		return
	}
	wasActive := m.session.Active()
	token := m.session.Token
	m.session = models.Session{}
	m.mu.Unlock()

	if err := m.store.Clear(ctx, token); err != nil {
		m.logger.Error(ctx, "could not clear stored session", "error", err)
	}

	if !wasActive && reason != ReasonLogout {
		return
	}
	m.logger.Info(ctx, "session ended", "reason", string(reason))
	if m.onUnauth != nil {
		m.onUnauth(reason)
	}
}

func needsAuth(req *http.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	p, ok := apiPath(req.URL.Path)
	return ok && p != client.PathLogin
}

func isLogin(req *http.Request) bool {
	if req.URL == nil {
		return false
	}
	p, ok := apiPath(req.URL.Path)
	return ok && p == client.PathLogin
}

// apiPath returns the part of p starting at /api/, so a server mounted
// under a prefix (http://host/portfolio) is matched like one at the root.
func apiPath(p string) (string, bool) {
	i := strings.Index(p, "/api/")
	if i < 0 {
		return "", false
	}
	return p[i:], true
}

func copySession(s models.Session) models.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
