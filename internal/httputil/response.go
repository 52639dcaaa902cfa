// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
	apperrors "github.com/allisson/litenotes/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	var lockoutErr *authDomain.LockoutError

	switch {
	case apperrors.As(err, &lockoutErr):
		statusCode = http.StatusTooManyRequests
		retryAfter := int(math.Ceil(lockoutErr.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		errorResponse = ErrorResponse{
			Error:   "account_locked",
			Message: "Too many failed login attempts. Please retry later.",
		}

	case apperrors.Is(err, apperrors.ErrLocked):
		statusCode = http.StatusTooManyRequests
		errorResponse = ErrorResponse{
			Error:   "account_locked",
			Message: "Too many failed login attempts. Please retry later.",
		}

	case apperrors.Is(err, apperrors.ErrKeyUnavailable):
		// The auth token may still be valid, but the cached encryption key is
		// gone. The client must log in again to restore the decryption context.
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "encryption_key_unavailable",
			Message: "Encryption key expired. Please log in again.",
		}

	case apperrors.Is(err, apperrors.ErrKeyAccess):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "key_access_error",
			Message: "Unable to access the account encryption key",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid credentials",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
