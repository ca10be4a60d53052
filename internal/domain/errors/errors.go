// Package errors defines the application error taxonomy. Every failure a
// domain operation can produce is one of these typed errors; the HTTP error
// middleware translates them into the response envelope.
package errors

import (
	"net/http"

	"userhub/internal/errors"
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

// Is matches errors by taxonomy code, so detail-carrying copies still
// compare equal to their predefined value under errors.Is.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)

	return ok && other.errorCode == e.errorCode
}

// WithDetails returns a copy of the error carrying detailed information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error values, one per taxonomy entry.
var (
	// Not-found errors
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"account not found",
		"",
	)

	ErrFileNotFound = NewBaseError(
		http.StatusNotFound,
		"FILE_NOT_FOUND",
		"file not found",
		"",
	)

	// Duplicate-resource errors, checked independently: username first.
	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"username is already taken",
		"",
	)

	ErrEmailTaken = NewBaseError(
		http.StatusConflict,
		"EMAIL_TAKEN",
		"email is already registered",
		"",
	)

	// Business rule violations
	ErrWrongPassword = NewBaseError(
		http.StatusBadRequest,
		"WRONG_PASSWORD",
		"current password does not match",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"new password and confirmation do not match",
		"",
	)

	ErrWeakPassword = NewBaseError(
		http.StatusBadRequest,
		"WEAK_PASSWORD",
		"password does not satisfy the password policy",
		"",
	)

	ErrInvalidFile = NewBaseError(
		http.StatusBadRequest,
		"INVALID_FILE",
		"uploaded file is empty, too large, or does not match its declared type",
		"",
	)

	ErrPathOutsideRoot = NewBaseError(
		http.StatusBadRequest,
		"PATH_OUTSIDE_ROOT",
		"file reference resolves outside the storage root",
		"",
	)

	ErrUnsupportedFormat = NewBaseError(
		http.StatusBadRequest,
		"UNSUPPORTED_FORMAT",
		"unsupported export format",
		"",
	)

	// Authentication failures. All credential and token problems collapse to
	// 401 at the boundary; the distinct codes remain for logging and audit.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid username or password",
		"",
	)

	ErrAccountLocked = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_LOCKED",
		"account is temporarily locked after repeated failed logins",
		"",
	)

	ErrAccountDisabled = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_DISABLED",
		"account is deactivated",
		"",
	)

	ErrTokenMalformed = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_MALFORMED",
		"token is malformed",
		"",
	)

	ErrTokenBadSignature = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_BAD_SIGNATURE",
		"token signature is invalid",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"token has expired",
		"",
	)

	ErrTokenUnsupported = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_UNSUPPORTED",
		"token uses an unsupported signing method or type",
		"",
	)

	// Authorization failure: authenticated but not permitted.
	ErrAccessDenied = NewBaseError(
		http.StatusForbidden,
		"ACCESS_DENIED",
		"insufficient role or ownership for this operation",
		"",
	)

	// Conflict: storage integrity violation or stale optimistic version.
	ErrVersionConflict = NewBaseError(
		http.StatusConflict,
		"VERSION_CONFLICT",
		"account was modified concurrently, retry with fresh data",
		"",
	)

	ErrConstraintViolation = NewBaseError(
		http.StatusConflict,
		"CONSTRAINT_VIOLATION",
		"storage integrity constraint violated",
		"",
	)

	ErrPayloadTooLarge = NewBaseError(
		http.StatusRequestEntityTooLarge,
		"PAYLOAD_TOO_LARGE",
		"request payload exceeds the configured limit",
		"",
	)

	// General errors
	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// ValidationError carries field-level validation failures grouped by field
// name, matching the fieldErrors contract of the response envelope.
type ValidationError struct {
	fieldErrors map[string][]string
}

// NewValidationError creates a validation error from grouped field messages.
func NewValidationError(fieldErrors map[string][]string) *ValidationError {
	return &ValidationError{fieldErrors: fieldErrors}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "input validation failed"
}

// HTTPCode returns the HTTP status code
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return "input validation failed"
}

// Details returns detailed error information
func (e *ValidationError) Details() string {
	return ""
}

// FieldErrors returns the violations grouped by field name.
func (e *ValidationError) FieldErrors() map[string][]string {
	return e.fieldErrors
}

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
