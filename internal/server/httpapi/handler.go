// Package httpapi is the JSON-over-HTTP surface of the portfolio API,
// built on gin.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/dmitrijs2005/portfolio/internal/server/tracing"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthService is the subset of services.UserService the handlers use.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Validate(ctx context.Context, token string) (*models.UserSummary, error)
	CurrentUser(ctx context.Context, token string) (*models.UserSummary, error)
	Logout(ctx context.Context, token string)
}

type ProjectService interface {
	List(ctx context.Context, category string) ([]models.Project, error)
}

// AuthEventRecorder counts authentication outcomes; *metrics.Metrics
// satisfies it.
type AuthEventRecorder interface {
	AuthEvent(operation, outcome string)
}

// Handler groups the API handlers. Dependencies are injected, there is no
// package state.
type Handler struct {
	auth     AuthService
	projects ProjectService
	events   AuthEventRecorder
}

func NewHandler(auth AuthService, projects ProjectService, events AuthEventRecorder) *Handler {
	return &Handler{auth: auth, projects: projects, events: events}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers a successful register or login.
type AuthResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User models.UserSummary `json:"user"`
}

type ProjectsResponse struct {
	Projects []models.Project `json:"projects"`
}

func invalidBody() ErrorResponse {
	return ErrorResponse{Message: "Invalid request body", Code: CodeValidation}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := tracing.StartSpan(c.Request.Context(), "auth.register", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		h.authEvent("register", CodeValidation)
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidBody())
		return
	}

	res, err := h.auth.Register(ctx, services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		_, body := classify(err)
		h.authEvent("register", body.Code)
		abortWithError(c, err)
		return
	}

	h.authEvent("register", "success")
	span.SetAttributes(attribute.String("user.id", res.User.ID))
	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := tracing.StartSpan(c.Request.Context(), "auth.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		h.authEvent("login", CodeValidation)
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidBody())
		return
	}

	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		_, body := classify(err)
		h.authEvent("login", body.Code)
		abortWithError(c, err)
		return
	}

	h.authEvent("login", "success")
	span.SetAttributes(attribute.String("user.id", res.User.ID))
	c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User,
	})
}

// Logout handles POST /api/auth/logout. It always succeeds; a token, if
// sent, is only used for logging.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), bearerToken(c))
	c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Me handles GET /api/auth/me behind RequireAuth.
func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortWithError(c, errMissingToken)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: *user})
}

// Projects handles GET /api/projects?category=.
func (h *Handler) Projects(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProjectsResponse{Projects: items})
}

func (h *Handler) authEvent(operation, outcome string) {
	if h.events != nil {
		h.events.AuthEvent(operation, outcome)
	}
}
