package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/metrics"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	users    *users.MemoryRepository
	metrics  *metrics.Metrics
	draining *atomic.Bool
	store    *fakePinger
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, opts ...func(*RouterDeps)) *testServer {
	t.Helper()

	repo := users.NewMemoryRepository()
	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: 7 * 24 * time.Hour,
		PasswordHashCost:      bcrypt.MinCost,
	}
	userSvc := services.NewUserService(repo, cfg, nil)
	projectSvc := services.NewProjectService(projects.NewMemoryRepository([]models.Project{
		{ID: "1", Title: "Shop", Category: "web"},
		{ID: "2", Title: "Chat", Category: "mobile"},
	}))

	m := metrics.New()
	draining := &atomic.Bool{}
	store := &fakePinger{}

	deps := RouterDeps{
		Handler:  NewHandler(userSvc, projectSvc, m),
		Logger:   zerolog.Nop(),
		Metrics:  m,
		Store:    store,
		Draining: draining,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	r := NewRouter(deps)

	return &testServer{router: r, users: repo, metrics: m, draining: draining, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validRegistration() map[string]string {
	return map[string]string{
		"username":  "jdoe",
		"email":     "x@y.com",
		"password":  "s3cret!",
		"firstName": "John",
		"lastName":  "Doe",
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegister_Created(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[AuthResponse](t, rec)
	assert.Equal(t, "User registered successfully", res.Message)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jdoe", res.User.UserName)
	assert.Equal(t, "John Doe", res.User.DisplayName)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, s *testServer)
		body     any
		wantCode string
		wantMsg  string
	}{
		{
			name:     "malformed json",
			body:     "{not json",
			wantCode: CodeValidation,
			wantMsg:  "Invalid request body",
		},
		{
			name: "short password",
			body: func() map[string]string {
				b := validRegistration()
				b["password"] = "123"
				return b
			}(),
			wantCode: CodeValidation,
		},
		{
			name: "duplicate email",
			prepare: func(t *testing.T, s *testServer) {
				rec := s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
				require.Equal(t, http.StatusCreated, rec.Code)
			},
			body: func() map[string]string {
				b := validRegistration()
				b["username"] = "other"
				return b
			}(),
			wantCode: CodeDuplicateIdentity,
			wantMsg:  "Email already registered",
		},
		{
			name: "duplicate username",
			prepare: func(t *testing.T, s *testServer) {
				rec := s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
				require.Equal(t, http.StatusCreated, rec.Code)
			},
			body: func() map[string]string {
				b := validRegistration()
				b["email"] = "other@y.com"
				return b
			}(),
			wantCode: CodeDuplicateIdentity,
			wantMsg:  "Username already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}

			rec := s.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			res := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, res.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.Message)
			}
		})
	}
}

func TestLogin_SuccessAndIdenticalFailures(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration()).Code)

	ok := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "X@Y.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	res := decode[AuthResponse](t, ok)
	assert.Equal(t, "Login successful", res.Message)
	assert.NotEmpty(t, res.Token)

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@y.com", "password": "nope!!"})
	unknownUser := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@y.com", "password": "nope!!"})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Equal(t, CodeInvalidCredentials, decode[ErrorResponse](t, unknownUser).Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	reg := decode[AuthResponse](t, s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration()))

	expired, err := auth.GenerateToken(reg.User.ID, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken(reg.User.ID, []byte("another-secret"), time.Hour)
	require.NoError(t, err)
	ghost, err := auth.GenerateToken("6f1c1f1e-0000-4000-8000-000000000000", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid", token: reg.Token, wantStatus: http.StatusOK},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantCode: CodeMissingToken},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: CodeMissingToken},
		{name: "garbage", token: "not-a-jwt", wantStatus: http.StatusForbidden, wantCode: CodeInvalidToken},
		{name: "expired", token: expired, wantStatus: http.StatusForbidden, wantCode: CodeInvalidToken},
		{name: "foreign signature", token: foreign, wantStatus: http.StatusForbidden, wantCode: CodeInvalidToken},
		{name: "unknown identity", token: ghost, wantStatus: http.StatusUnauthorized, wantCode: CodeUnknownIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			switch {
			case tt.header != "":
				req.Header.Set("Authorization", tt.header)
			case tt.token != "":
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
				return
			}
			me := decode[UserResponse](t, rec)
			assert.Equal(t, reg.User, me.User)
		})
	}
}

func TestLogout_AlwaysOK(t *testing.T) {
	s := newTestServer(t)

	for _, token := range []string{"", "garbage"} {
		rec := s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Logout successful", decode[MessageResponse](t, rec).Message)
	}
}

func TestProjects(t *testing.T) {
	s := newTestServer(t)
	reg := decode[AuthResponse](t, s.do(t, http.MethodPost, "/api/auth/register", "", validRegistration()))

	rec := s.do(t, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/projects?category=WEB", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[ProjectsResponse](t, rec)
	require.Len(t, res.Projects, 1)
	assert.Equal(t, "Shop", res.Projects[0].Title)

	rec = s.do(t, http.MethodGet, "/api/projects", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[ProjectsResponse](t, rec).Projects, 2)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	s.store.err = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	s.store.err = nil
	s.draining.Store(true)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestMetricsEndpoint_RecordsAuthEvents(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "wrong!"})

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `portfolio_auth_events_total{operation="login",outcome="invalid_credentials"} 1`), body)
	assert.Contains(t, body, "portfolio_http_requests_total")
}

func TestRateLimit_RejectsAfterQuota(t *testing.T) {
	s := newTestServer(t, func(d *RouterDeps) {
		d.RateLimiter = NewRateLimiter(3, 15*time.Minute)
	})

	for i := 0; i < 3; i++ {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@y.com", "password": "nope"})
		require.Equal(t, http.StatusBadRequest, rec.Code, "request %d", i)
	}

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@y.com", "password": "nope"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeRateLimited, body.Code)
	assert.Equal(t, "Too many requests, please try again later.", body.Message)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code, "only /api is limited")
}

func TestNoRoute_ReturnsJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found","code":"not_found"}`, rec.Body.String())
}

func TestRecovery_ReturnsJSON(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := s.do(t, http.MethodGet, "/boom", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Something went wrong!","code":"internal_error"}`, rec.Body.String())
}
