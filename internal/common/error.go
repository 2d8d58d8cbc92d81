// Package common defines constants and sentinel errors shared by the client
// and server sides of the portfolio auth system. Callers match these values
// with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrValidation marks malformed or missing input the caller can correct.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateIdentity is returned when a registration collides with an
	// existing email or username.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrInvalidCredentials covers both an unknown account and a wrong
	// password. The two cases are never distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token verification errors.
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrUnknownIdentity = errors.New("unknown identity")
)

// ValidationError names the offending field together with a human message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a *ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports which unique field caused a registration conflict.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	switch e.Field {
	case "email":
		return "Email already registered"
	case "username":
		return "Username already taken"
	default:
		return "User already exists"
	}
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}
