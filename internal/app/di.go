// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	authHTTP "github.com/allisson/litenotes/internal/auth/http"
	authRepository "github.com/allisson/litenotes/internal/auth/repository"
	authService "github.com/allisson/litenotes/internal/auth/service"
	authUsecase "github.com/allisson/litenotes/internal/auth/usecase"
	"github.com/allisson/litenotes/internal/config"
	cryptoService "github.com/allisson/litenotes/internal/crypto/service"
	"github.com/allisson/litenotes/internal/database"
	"github.com/allisson/litenotes/internal/http"
	"github.com/allisson/litenotes/internal/keycache"
	"github.com/allisson/litenotes/internal/mail"
	"github.com/allisson/litenotes/internal/metrics"
	noteHTTP "github.com/allisson/litenotes/internal/note/http"
	noteRepository "github.com/allisson/litenotes/internal/note/repository"
	noteUsecase "github.com/allisson/litenotes/internal/note/usecase"
	userHTTP "github.com/allisson/litenotes/internal/user/http"
	userRepository "github.com/allisson/litenotes/internal/user/repository"
	userUsecase "github.com/allisson/litenotes/internal/user/usecase"
)

// keyCacheSweepInterval is how often the in-memory key cache evicts expired
// entries and zeroes their key material.
const keyCacheSweepInterval = time.Minute

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	keyCache        *keycache.MemoryCache
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	mailSender      mail.Sender

	// Managers
	txManager database.TxManager

	// Services
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	lockoutService  authService.LockoutService
	envelopeCipher  cryptoService.EnvelopeCipher
	keyService      cryptoService.KeyService

	// Repositories
	tokenRepo authUsecase.TokenRepository
	userRepo  userUsecase.UserRepository
	resetRepo userUsecase.PasswordResetRepository
	noteRepo  noteUsecase.NoteRepository

	// Use Cases
	tokenUseCase authUsecase.TokenUseCase
	userUseCase  userUsecase.UseCase
	noteUseCase  noteUsecase.UseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	keyCacheInit        sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	mailSenderInit      sync.Once
	txManagerInit       sync.Once
	servicesInit        sync.Once
	tokenRepoInit       sync.Once
	userRepoInit        sync.Once
	resetRepoInit       sync.Once
	noteRepoInit        sync.Once
	tokenUseCaseInit    sync.Once
	userUseCaseInit     sync.Once
	noteUseCaseInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// KeyCache returns the in-memory data key cache. The cache is owned by the
// container and closed (zeroing all cached keys) on Shutdown.
func (c *Container) KeyCache() keycache.Cache {
	c.keyCacheInit.Do(func() {
		c.keyCache = keycache.NewMemoryCache(keyCacheSweepInterval)
	})
	return c.keyCache
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business operation metrics recorder. A no-op
// recorder is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}

		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// MailSender returns the outbound mail sender. Without an SMTP host
// configured, mail is logged instead of delivered.
func (c *Container) MailSender() mail.Sender {
	c.mailSenderInit.Do(func() {
		if c.config.SMTPHost == "" {
			c.Logger().Warn("SMTP host not configured - outbound mail will be logged only")
			c.mailSender = mail.NewLogSender(c.Logger())
			return
		}
		c.mailSender = mail.NewSMTPSender(c.config)
	})
	return c.mailSender
}

// initServices constructs the stateless crypto and auth services as a unit.
func (c *Container) initServices() {
	c.servicesInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
		c.tokenService = authService.NewTokenService()
		c.lockoutService = authService.NewLockoutService(
			c.config.LockoutMaxAttempts,
			c.config.LockoutDuration,
			time.Now,
		)
		c.envelopeCipher = cryptoService.NewEnvelopeCipher()
		c.keyService = cryptoService.NewKeyService(c.envelopeCipher)
	})
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.initServices()
	return c.passwordService
}

// TokenService returns the token generation/hashing service.
func (c *Container) TokenService() authService.TokenService {
	c.initServices()
	return c.tokenService
}

// LockoutService returns the login lockout service.
func (c *Container) LockoutService() authService.LockoutService {
	c.initServices()
	return c.lockoutService
}

// EnvelopeCipher returns the AES-256-GCM envelope cipher.
func (c *Container) EnvelopeCipher() cryptoService.EnvelopeCipher {
	c.initServices()
	return c.envelopeCipher
}

// KeyService returns the envelope key service.
func (c *Container) KeyService() cryptoService.KeyService {
	c.initServices()
	return c.keyService
}

// TokenRepository returns the auth token repository instance.
func (c *Container) TokenRepository() (authUsecase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// PasswordResetRepository returns the password reset repository instance.
func (c *Container) PasswordResetRepository() (userUsecase.PasswordResetRepository, error) {
	var err error
	c.resetRepoInit.Do(func() {
		c.resetRepo, err = c.initPasswordResetRepository()
		if err != nil {
			c.initErrors["resetRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resetRepo"]; exists {
		return nil, storedErr
	}
	return c.resetRepo, nil
}

// NoteRepository returns the note repository instance.
func (c *Container) NoteRepository() (noteUsecase.NoteRepository, error) {
	var err error
	c.noteRepoInit.Do(func() {
		c.noteRepo, err = c.initNoteRepository()
		if err != nil {
			c.initErrors["noteRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noteRepo"]; exists {
		return nil, storedErr
	}
	return c.noteRepo, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (authUsecase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// NoteUseCase returns the note use case instance.
func (c *Container) NoteUseCase() (noteUsecase.UseCase, error) {
	var err error
	c.noteUseCaseInit.Do(func() {
		c.noteUseCase, err = c.initNoteUseCase()
		if err != nil {
			c.initErrors["noteUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noteUseCase"]; exists {
		return nil, storedErr
	}
	return c.noteUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Closing the key cache zeroes every cached data key.
	if c.keyCache != nil {
		c.keyCache.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initTokenRepository creates the auth token repository instance.
func (c *Container) initTokenRepository() (authUsecase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPasswordResetRepository creates the password reset repository instance.
func (c *Container) initPasswordResetRepository() (userUsecase.PasswordResetRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for password reset repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLPasswordResetRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLPasswordResetRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initNoteRepository creates the note repository instance.
func (c *Container) initNoteRepository() (noteUsecase.NoteRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for note repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return noteRepository.NewMySQLNoteRepository(db), nil
	case "postgres":
		return noteRepository.NewPostgreSQLNoteRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (authUsecase.TokenUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	return authUsecase.NewTokenUseCase(c.config, tokenRepo, c.TokenService()), nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	resetRepo, err := c.PasswordResetRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset repository for user use case: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for user use case: %w", err)
	}

	baseUseCase := userUsecase.NewUserUseCase(
		c.config,
		txManager,
		userRepo,
		resetRepo,
		c.PasswordService(),
		c.TokenService(),
		tokenUseCase,
		c.LockoutService(),
		c.KeyService(),
		c.KeyCache(),
		c.MailSender(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return userUsecase.NewUserUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initNoteUseCase creates the note use case with all its dependencies.
func (c *Container) initNoteUseCase() (noteUsecase.UseCase, error) {
	noteRepo, err := c.NoteRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get note repository for note use case: %w", err)
	}

	baseUseCase := noteUsecase.NewNoteUseCase(
		noteRepo,
		c.EnvelopeCipher(),
		c.KeyCache(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for note use case: %w", err)
		}
		return noteUsecase.NewNoteUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	noteUseCase, err := c.NoteUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get note use case for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	authMiddleware := authHTTP.AuthenticationMiddleware(tokenUseCase, c.TokenService(), logger)

	return http.NewServer(
		c.config,
		db,
		logger,
		userHTTP.NewUserHandler(userUseCase, logger),
		noteHTTP.NewNoteHandler(noteUseCase, logger),
		authMiddleware,
		metricsProvider,
	), nil
}

// initMetricsServer creates the metrics server with its provider.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		metricsProvider,
	), nil
}
