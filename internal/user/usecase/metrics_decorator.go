package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/metrics"
	"github.com/allisson/litenotes/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for user registration operations.
func (u *userUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "register", status)
	u.metrics.RecordDuration(ctx, "users", "register", time.Since(start), status)

	return user, err
}

// Login records metrics for login operations.
func (u *userUseCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	start := time.Now()
	output, err := u.next.Login(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "login", status)
	u.metrics.RecordDuration(ctx, "users", "login", time.Since(start), status)

	return output, err
}

// Logout records metrics for logout operations.
func (u *userUseCaseWithMetrics) Logout(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	start := time.Now()
	err := u.next.Logout(ctx, userID, tokenHash)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "logout", status)
	u.metrics.RecordDuration(ctx, "users", "logout", time.Since(start), status)

	return err
}

// RequestPasswordReset records metrics for password reset requests.
func (u *userUseCaseWithMetrics) RequestPasswordReset(ctx context.Context, email string) error {
	start := time.Now()
	err := u.next.RequestPasswordReset(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "password_reset_request", status)
	u.metrics.RecordDuration(ctx, "users", "password_reset_request", time.Since(start), status)

	return err
}

// ResetPassword records metrics for password reset confirmations.
func (u *userUseCaseWithMetrics) ResetPassword(ctx context.Context, token string, newPassword string) error {
	start := time.Now()
	err := u.next.ResetPassword(ctx, token, newPassword)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "password_reset_confirm", status)
	u.metrics.RecordDuration(ctx, "users", "password_reset_confirm", time.Since(start), status)

	return err
}

// GetByID records metrics for user lookup operations.
func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetByID(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", "get", status)
	u.metrics.RecordDuration(ctx, "users", "get", time.Since(start), status)

	return user, err
}
