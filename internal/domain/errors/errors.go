package errors

import (
	"net/http"

	"posauth/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types.
//
// Authentication denials deliberately share the same generic user-facing
// message; the specific reason travels in the business code and the audit
// trail, never on the lock screen.
var (
	// ErrCardNotFound is the denial for an unregistered or empty card id.
	ErrCardNotFound = NewBaseError(
		http.StatusUnauthorized,
		"CARD_NOT_FOUND",
		"access denied",
		"",
	)

	// ErrPINRequired is the denial when a credential demands a PIN and the
	// supplied one is missing or does not match.
	ErrPINRequired = NewBaseError(
		http.StatusUnauthorized,
		"PIN_REQUIRED_OR_INCORRECT",
		"access denied",
		"",
	)

	// ErrDuplicateCard is returned when an upsert would bind a card id that
	// already belongs to a different user.
	ErrDuplicateCard = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_CARD",
		"RFID card is already assigned to another user",
		"",
	)

	// ErrCredentialNotFound is returned when a credential lookup by user fails.
	ErrCredentialNotFound = NewBaseError(
		http.StatusNotFound,
		"CREDENTIAL_NOT_FOUND",
		"credential not found",
		"",
	)

	// ErrCredentialUpdateFailed is returned when a credential write fails for
	// a reason other than a card conflict.
	ErrCredentialUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"CREDENTIAL_UPDATE_FAILED",
		"failed to update credential",
		"",
	)

	// ErrSessionNotFound is returned for lock operations on a terminal with
	// no open session.
	ErrSessionNotFound = NewBaseError(
		http.StatusNotFound,
		"SESSION_NOT_FOUND",
		"no session open for this terminal",
		"",
	)

	// ErrValidationFailed is returned when request input validation fails.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// ErrInternalError is the fallback for unexpected failures.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
