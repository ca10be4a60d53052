package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"userhub/config"
	"userhub/internal/delivery/http/response"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/errors"
)

// ErrorMiddleware translates errors into the response envelope as Echo's
// central HTTPErrorHandler.
type ErrorMiddleware struct {
	logger *slog.Logger
	dev    bool
}

// NewErrorMiddleware creates a new error handling middleware.
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		dev:    cfg.IsDev(),
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Field-grouped validation failures carry their own payload shape.
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		_ = response.ErrorWithInfo(c, validationErr.HTTPCode(), validationErr.Message(), &response.ErrorInfo{
			Code:        validationErr.ErrorCode(),
			FieldErrors: validationErr.FieldErrors(),
			StackTrace:  m.stackTrace(err),
		})

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		message := appErr.Message()
		if details := appErr.Details(); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}

		_ = response.ErrorWithInfo(c, appErr.HTTPCode(), message, &response.ErrorInfo{
			Code:       appErr.ErrorCode(),
			StackTrace: m.stackTrace(err),
		})

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", fmt.Sprintf("%v", httpErr.Message))

		return
	}

	m.logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	message := "Internal server error"
	if m.dev {
		message = err.Error()
	}

	_ = response.ErrorWithInfo(c, http.StatusInternalServerError, message, &response.ErrorInfo{
		Code:       "INTERNAL_ERROR",
		StackTrace: m.stackTrace(err),
	})
}

// stackTrace renders the wrapped stack outside production builds only.
func (m *ErrorMiddleware) stackTrace(err error) string {
	if !m.dev {
		return ""
	}

	return fmt.Sprintf("%+v", err)
}
