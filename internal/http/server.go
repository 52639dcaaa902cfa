// Package http provides the HTTP server, routing, and server middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/litenotes/internal/auth/http"
	"github.com/allisson/litenotes/internal/config"
	"github.com/allisson/litenotes/internal/metrics"
	noteHTTP "github.com/allisson/litenotes/internal/note/http"
	userHTTP "github.com/allisson/litenotes/internal/user/http"
)

// Server represents the HTTP API server.
type Server struct {
	server          *http.Server
	router          *gin.Engine
	db              *sql.DB
	config          *config.Config
	logger          *slog.Logger
	userHandler     *userHTTP.UserHandler
	noteHandler     *noteHTTP.NoteHandler
	authMiddleware  gin.HandlerFunc
	metricsProvider *metrics.Provider
}

// NewServer creates a new Server. The metricsProvider may be nil when metrics
// collection is disabled.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	userHandler *userHTTP.UserHandler,
	noteHandler *noteHTTP.NoteHandler,
	authMiddleware gin.HandlerFunc,
	metricsProvider *metrics.Provider,
) *Server {
	return &Server{
		config:          cfg,
		db:              db,
		logger:          logger,
		userHandler:     userHandler,
		noteHandler:     noteHandler,
		authMiddleware:  authMiddleware,
		metricsProvider: metricsProvider,
	}
}

// setupRouter builds the Gin engine with all middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.config.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled,
		s.config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	v1.POST("/users", s.userHandler.RegisterHandler)

	// Credential-guessing surface gets per-IP rate limiting.
	limited := v1.Group("")
	if s.config.RateLimitLoginEnabled {
		limited.Use(authHTTP.LoginRateLimitMiddleware(
			s.config.RateLimitLoginRequestsPerSec,
			s.config.RateLimitLoginBurst,
			s.logger,
		))
	}
	limited.POST("/login", s.userHandler.LoginHandler)
	limited.POST("/password-reset", s.userHandler.PasswordResetHandler)
	limited.POST("/password-reset/confirm", s.userHandler.PasswordResetConfirmHandler)

	private := v1.Group("")
	private.Use(s.authMiddleware)
	private.POST("/logout", s.userHandler.LogoutHandler)
	private.POST("/notes", s.noteHandler.CreateNoteHandler)
	private.GET("/notes", s.noteHandler.ListNotesHandler)
	private.PUT("/notes/:id", s.noteHandler.UpdateNoteHandler)
	private.DELETE("/notes/:id", s.noteHandler.DeleteNoteHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can take traffic, checking the
// database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	status := "ready"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.router = s.setupRouter()
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		s.router = s.setupRouter()
	}
	return s.router
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
