package auth

import (
	"errors"
	"fmt"
)

// Error codes used across controllers and services.
const (
	ErrValidation          = "VALIDATION"           // Missing or malformed input
	ErrInvalidCredentials  = "INVALID_CREDENTIALS"  // Bad email/password or old password
	ErrInvalidCode         = "INVALID_CODE"         // Two-factor code mismatch
	ErrLockout             = "LOCKOUT"              // Two-factor attempt budget exhausted
	ErrDeliveryUnreachable = "DELIVERY_UNREACHABLE" // Push gateway unreachable, record kept
	ErrDemoMode            = "DEMO_MODE"            // Mutation blocked by demo mode
	ErrNotFound            = "NOT_FOUND"            // Record does not exist
	ErrUnexpected          = "UNEXPECTED"           // Internal failure, generic message only
)

// AuthError is the error type shared by the auth and announcement flows.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an AuthError without a cause.
func NewAuthError(code, message string) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
	}
}

// NewAuthErrorWithCause creates an AuthError wrapping a cause.
func NewAuthErrorWithCause(code, message string, cause error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// IsAuthError reports whether err is an AuthError with the given code.
func IsAuthError(err error, code string) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}

// MessageOf returns the user-facing message of an AuthError, or the generic
// fallback for anything else so internal detail never leaks to callers.
func MessageOf(err error, fallback string) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return fallback
}
