// Package apperror defines a centralized system for application-specific errors.
// Services return *AppError values and the HTTP layer turns them into status codes,
// so "not found" travels as an explicit, checkable error kind instead of a panic
// or a nil result.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// NotFoundError represents a resource not found error
	NotFoundError
	// BadRequestError represents a malformed request (bad JSON, non-numeric id)
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g. a username that is already taken
	ConflictError
)

// String returns a short name for the error type, used in logs.
func (t ErrorType) String() string {
	switch t {
	case DatabaseError:
		return "database"
	case ConfigError:
		return "config"
	case NotFoundError:
		return "not_found"
	case BadRequestError:
		return "bad_request"
	case InternalError:
		return "internal"
	case MigrationError:
		return "migration"
	case ConflictError:
		return "conflict"
	default:
		return "unknown"
	}
}

// AppError is a custom error type for the application.
// It carries a user-facing Message and optionally wraps the underlying error.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so errors.Is and errors.As can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case NotFoundError:
		return http.StatusNotFound
	case BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		return http.StatusConflict
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is the generic constructor; the
// typed helpers below are preferred at call sites.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing Message is exposed, never the wrapped error.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError finds the first *AppError in err's chain.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, NotFoundError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return isType(err, ConflictError)
}

// IsBadRequest checks if an error is a BadRequest error
func IsBadRequest(err error) bool {
	return isType(err, BadRequestError)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
