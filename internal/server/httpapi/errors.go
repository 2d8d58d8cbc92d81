package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Machine-readable error codes carried next to the human message.
const (
	CodeValidation         = "validation_error"
	CodeDuplicateIdentity  = "duplicate_identity"
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingToken       = "missing_token"
	CodeInvalidToken       = "invalid_token"
	CodeUnknownIdentity    = "unknown_identity"
	CodeInternal           = "internal_error"
	CodeRateLimited        = "rate_limited"
	CodeNotFound           = "not_found"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

var errMissingToken = errors.New("access token required")

// classify maps a service error to status, code and the message shown to
// the client. Internal details never reach the message.
func classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, errMissingToken):
		return http.StatusUnauthorized, ErrorResponse{Message: "Access token required", Code: CodeMissingToken}
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Code: CodeValidation}
	case errors.Is(err, common.ErrDuplicateIdentity):
		return http.StatusBadRequest, ErrorResponse{Message: duplicateMessage(err), Code: CodeDuplicateIdentity}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, ErrorResponse{Message: "Invalid email or password", Code: CodeInvalidCredentials}
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden, ErrorResponse{Message: "Invalid or expired token", Code: CodeInvalidToken}
	case errors.Is(err, common.ErrUnknownIdentity):
		return http.StatusUnauthorized, ErrorResponse{Message: "Invalid token", Code: CodeUnknownIdentity}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "Server error", Code: CodeInternal}
	}
}

func duplicateMessage(err error) string {
	var dup *common.DuplicateError
	if errors.As(err, &dup) {
		return dup.Error()
	}
	return "User already exists"
}

// abortWithError writes the classified error, records it on the active
// span and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	status, body := classify(err)

	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, body.Code)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
