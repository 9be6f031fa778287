package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrIdentity       = errors.New("identity error")
	ErrInfrastructure = errors.New("infrastructure error")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
)

// Reason narrows an authentication failure.
type Reason string

const (
	ReasonInvalidCredentials  Reason = "invalid-credentials"
	ReasonDisabled            Reason = "disabled"
	ReasonOAuthOnly           Reason = "oauth-only"
	ReasonUnsupportedProvider Reason = "unsupported-provider"
)

type AppError struct {
	Err     error             // kind sentinel
	Message string            // safe to show to the client
	Field   string            // optional: single offending field
	Reason  Reason            // authentication failures only
	Details map[string]string // optional: field-level validation messages
	Cause   error             // internal cause, never shown
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidFields reports several field errors at once.
func InvalidFields(message string, details map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Details: details,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

func Authentication(reason Reason, message string) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: message,
		Reason:  reason,
	}
}

func Identity(message string) *AppError {
	return &AppError{
		Err:     ErrIdentity,
		Message: message,
	}
}

// Infrastructure wraps a backend failure. The cause is kept for logs only.
func Infrastructure(cause error) *AppError {
	return &AppError{
		Err:     ErrInfrastructure,
		Message: "Internal server error",
		Cause:   cause,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// ReasonOf returns the authentication reason carried by err, if any.
func ReasonOf(err error) Reason {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
