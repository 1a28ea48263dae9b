// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIError represents a structured API error response.
type APIError struct {
	Status           int    `json:"-"`
	Code             string `json:"code"`
	Message          string `json:"error"`
	RequiresPassword bool   `json:"requiresPassword,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Error constructors for consistent error handling

// NewValidationError creates a 400 error for invalid or missing input.
func NewValidationError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewAuthRequiredError creates a 401 error carrying the machine-readable
// requiresPassword hint, used when a private file is requested without a
// code (or has none registered after a restart).
func NewAuthRequiredError() *APIError {
	return &APIError{
		Status:           http.StatusUnauthorized,
		Code:             "ACCESS_CODE_REQUIRED",
		Message:          "Access code required",
		RequiresPassword: true,
	}
}

// NewInvalidCodeError creates a generic 401 error for a wrong access code.
func NewInvalidCodeError() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "INVALID_ACCESS_CODE",
		Message: "Invalid access code",
	}
}

// NewNotFoundError creates a 404 Not Found error.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// NewIOError creates a 500 error with a generic client message. The original
// error is retained for server-side logging only.
func NewIOError(message string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "IO_ERROR",
		Message: message,
		cause:   cause,
	}
}

// NewErrorHandler returns an echo HTTPErrorHandler that maps APIError values
// to JSON responses and logs IOError causes server-side.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(logger)
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError

		switch e := err.(type) {
		case *APIError:
			apiErr = e
			if e.cause != nil {
				logger.Error("request failed",
					zap.String("path", c.Request().URL.Path),
					zap.String("code", e.Code),
					zap.Error(e.cause),
				)
			}
		case *echo.HTTPError:
			apiErr = &APIError{
				Status:  e.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", e.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			logger.Error("unhandled error",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if !c.Response().Committed {
			c.JSON(apiErr.Status, apiErr)
		}
	}
}
