// Package usecase implements the user business logic: registration, login
// with envelope key handling, logout, and password reset.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/user/domain"
)

// UserRepository defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateCredentials replaces the password hash together with the envelope
	// state (salt + wrapped DEK). The three always change as a unit.
	UpdateCredentials(
		ctx context.Context,
		id uuid.UUID,
		passwordHash string,
		encryptionSalt []byte,
		wrappedDek string,
	) error
}

// PasswordResetRepository defines password reset token repository operations.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// RegisterInput contains the input data for user registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput contains the input data for user login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginOutput is the result of a successful login.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// Register creates a new user with freshly generated envelope key material.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login authenticates a user, unwraps and caches the data encryption key,
	// and issues a bearer token.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Logout revokes the presented token and drops the cached data key.
	Logout(ctx context.Context, userID uuid.UUID, tokenHash string) error

	// RequestPasswordReset creates a reset token and emails the reset link.
	// The outcome is identical whether or not the email is registered.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the password hash and
	// envelope state.
	ResetPassword(ctx context.Context, token string, newPassword string) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
