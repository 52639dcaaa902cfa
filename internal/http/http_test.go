package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
	authHTTP "github.com/allisson/litenotes/internal/auth/http"
	"github.com/allisson/litenotes/internal/config"
	"github.com/allisson/litenotes/internal/metrics"
	noteDomain "github.com/allisson/litenotes/internal/note/domain"
	noteHTTP "github.com/allisson/litenotes/internal/note/http"
	noteUsecase "github.com/allisson/litenotes/internal/note/usecase"
	userDomain "github.com/allisson/litenotes/internal/user/domain"
	userHTTP "github.com/allisson/litenotes/internal/user/http"
	userUsecase "github.com/allisson/litenotes/internal/user/usecase"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubUserUseCase is a minimal user use case for routing tests.
type stubUserUseCase struct{}

func (stubUserUseCase) Register(_ context.Context, input userUsecase.RegisterInput) (*userDomain.User, error) {
	return &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: input.Username,
	}, nil
}

func (stubUserUseCase) Login(_ context.Context, input userUsecase.LoginInput) (*userUsecase.LoginOutput, error) {
	return &userUsecase.LoginOutput{
		Token:     "test-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User: &userDomain.User{
			ID:       uuid.Must(uuid.NewV7()),
			Username: input.Username,
		},
	}, nil
}

func (stubUserUseCase) Logout(context.Context, uuid.UUID, string) error {
	return nil
}

func (stubUserUseCase) RequestPasswordReset(context.Context, string) error {
	return nil
}

func (stubUserUseCase) ResetPassword(context.Context, string, string) error {
	return nil
}

func (stubUserUseCase) GetByID(context.Context, uuid.UUID) (*userDomain.User, error) {
	return nil, userDomain.ErrUserNotFound
}

// stubNoteUseCase is a minimal note use case for routing tests.
type stubNoteUseCase struct{}

func (stubNoteUseCase) Create(_ context.Context, _ uuid.UUID, input noteUsecase.NoteInput) (*noteDomain.DecryptedNote, error) {
	return &noteDomain.DecryptedNote{
		ID:    uuid.Must(uuid.NewV7()),
		Title: noteDomain.Ok(input.Title),
	}, nil
}

func (stubNoteUseCase) List(context.Context, uuid.UUID) ([]*noteDomain.DecryptedNote, error) {
	return []*noteDomain.DecryptedNote{}, nil
}

func (stubNoteUseCase) Update(context.Context, uuid.UUID, uuid.UUID, noteUsecase.NoteInput) (*noteUsecase.UpdateOutput, error) {
	return &noteUsecase.UpdateOutput{UpdatedAt: time.Now().UTC()}, nil
}

func (stubNoteUseCase) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

// stubAuthMiddleware accepts "Bearer test-token" and rejects everything else.
func stubAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer test-token" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		ctx := authHTTP.WithIdentity(c.Request.Context(), &authDomain.Identity{
			UserID:   uuid.Must(uuid.NewV7()),
			Username: "alice",
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a server with stub use cases and no database.
func createTestServer(mutate func(*config.Config)) *Server {
	cfg := &config.Config{
		ServerHost:       "localhost",
		ServerPort:       0,
		MetricsNamespace: "test_app",
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := testLogger()
	userHandler := userHTTP.NewUserHandler(stubUserUseCase{}, logger)
	noteHandler := noteHTTP.NewNoteHandler(stubNoteUseCase{}, logger)

	return NewServer(cfg, nil, logger, userHandler, noteHandler, stubAuthMiddleware(), nil)
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler_NotReady_NilDB(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not_ready", response["status"])

	components, ok := response["components"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", components["database"])
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestIDHeaderPresent(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	requestID := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)

	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestRouter_PublicRoutes(t *testing.T) {
	server := createTestServer(nil)
	handler := server.GetHandler()

	t.Run("register", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/users",
			strings.NewReader(`{"username":"alice","password":"sevenpass"}`))
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/login",
			strings.NewReader(`{"username":"alice","password":"sevenpass"}`))
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "test-token")
	})

	t.Run("password reset ack", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/password-reset",
			strings.NewReader(`{"email":"alice@example.com"}`))
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	server := createTestServer(nil)
	handler := server.GetHandler()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/logout"},
		{http.MethodGet, "/v1/notes"},
		{http.MethodPost, "/v1/notes"},
		{http.MethodPut, "/v1/notes/" + uuid.Must(uuid.NewV7()).String()},
		{http.MethodDelete, "/v1/notes/" + uuid.Must(uuid.NewV7()).String()},
	} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_ProtectedRouteWithToken(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/notes", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notes":[]`)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	server := createTestServer(func(cfg *config.Config) {
		cfg.RateLimitLoginEnabled = true
		cfg.RateLimitLoginRequestsPerSec = 1
		cfg.RateLimitLoginBurst = 1
	})
	handler := server.GetHandler()

	login := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/login",
			strings.NewReader(`{"username":"alice","password":"sevenpass"}`))
		req.RemoteAddr = "10.1.1.1:1234"
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(testLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(testLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := createTestServer(nil)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(context.Background()); err != nil {
			errChan <- err
		}
	}()

	// Give the server time to start.
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		t.Fatalf("server startup failed: %v", err)
	default:
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	t.Run("serves metrics when provider is set", func(t *testing.T) {
		provider, err := metrics.NewProvider("test_app")
		require.NoError(t, err)

		server := NewMetricsServer("localhost", 0, testLogger(), provider)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no metrics route without provider", func(t *testing.T) {
		server := NewMetricsServer("localhost", 0, testLogger(), nil)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
