// Package response defines the unified API response envelope.
package response

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// StatusSuccess marks a successful envelope.
	StatusSuccess = "success"

	// StatusError marks an error envelope.
	StatusError = "error"
)

// Response unified API response structure
type Response struct {
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code        string              `json:"code"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	StackTrace  string              `json:"stackTrace,omitempty"`
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, Response{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// NoContent 204 response
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string) error {
	return ErrorWithInfo(c, statusCode, message, &ErrorInfo{Code: errorCode})
}

// ErrorWithInfo error response with full error details
func ErrorWithInfo(c echo.Context, statusCode int, message string, info *ErrorInfo) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Status:    StatusError,
		Message:   message,
		Error:     info,
		Timestamp: time.Now().UTC(),
	})
}

// BindingError binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message)
}

// BadRequest 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message)
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message)
}

// Forbidden 403 error
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message)
}

// NotFound 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message)
}
