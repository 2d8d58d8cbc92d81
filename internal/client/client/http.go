package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/models"
)

// API paths.
const (
	PathRegister = "/api/auth/register"
	PathLogin    = "/api/auth/login"
	PathLogout   = "/api/auth/logout"
	PathMe       = "/api/auth/me"
	PathProjects = "/api/projects"
)

// AuthResponse is the body of a successful register or login.
type AuthResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API at baseURL
// (e.g. "http://localhost:3000").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport,
		},
	}
}

// Use registers an interceptor. Interceptors registered later run closer
// to the network. Call it before the client is shared between goroutines.
func (c *HTTPClient) Use(i Interceptor) {
	c.http.Transport = &interceptTransport{next: c.http.Transport, interceptor: i}
}

func (c *HTTPClient) Register(ctx context.Context, p models.Profile) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, PathRegister, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathLogout, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.UserSummary, error) {
	var out struct {
		User models.UserSummary `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, PathMe, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Projects lists the catalog; an empty category means all.
func (c *HTTPClient) Projects(ctx context.Context, category string) ([]models.Project, error) {
	path := PathProjects
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var out struct {
		Projects []models.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &eb) == nil {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
	}
	return apiErr
}
