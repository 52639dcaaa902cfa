package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
	apperrors "github.com/allisson/litenotes/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleErrorGin(c, err, nil)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleErrorGin(t *testing.T) {
	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleErrorGin(c, nil, nil)
		assert.Empty(t, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrNotFound, "note not found"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", body.Error)
	})

	t.Run("conflict", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrConflict, "username already taken"))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", body.Error)
		assert.Contains(t, body.Message, "username already taken")
	})

	t.Run("invalid input", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrInvalidInput, "title: cannot be blank"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", body.Error)
	})

	t.Run("unauthorized", func(t *testing.T) {
		w, body := performError(t, authDomain.ErrInvalidCredentials)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", body.Error)
		assert.Equal(t, "Invalid credentials", body.Message)
	})

	t.Run("lockout includes retry-after header", func(t *testing.T) {
		w, body := performError(t, &authDomain.LockoutError{RetryAfter: 90 * time.Second})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "account_locked", body.Error)
		assert.Equal(t, "90", w.Header().Get("Retry-After"))
	})

	t.Run("key unavailable asks for a new login", func(t *testing.T) {
		w, body := performError(t, apperrors.ErrKeyUnavailable)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "encryption_key_unavailable", body.Error)
	})

	t.Run("key access error is internal", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrKeyAccess, "unwrap failed"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "key_access_error", body.Error)
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		w, body := performError(t, apperrors.New("driver: bad connection"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", body.Error)
		assert.NotContains(t, body.Message, "driver")
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleBadRequestGin(c, apperrors.New("invalid JSON"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad_request")
}

func TestHandleValidationErrorGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleValidationErrorGin(c, apperrors.New("username: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
