package client

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

var (
	ErrUnavailable  = errors.New("connection failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the server. Message is shown to the
// user as is.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case common.ErrValidation:
		return e.Code == "validation_error"
	case common.ErrDuplicateIdentity:
		return e.Code == "duplicate_identity"
	case common.ErrInvalidCredentials:
		return e.Code == "invalid_credentials"
	case common.ErrInvalidToken:
		return e.Code == "invalid_token"
	case common.ErrUnknownIdentity:
		return e.Code == "unknown_identity"
	case common.ErrorInternal:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}
