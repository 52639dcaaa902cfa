// Package usecase implements business logic orchestration for authentication tokens.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
)

// TokenRepository defines token repository operations.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
	Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// IssueTokenOutput is the result of issuing a new token.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}

// TokenUseCase defines the interface for token business logic operations.
type TokenUseCase interface {
	// Issue generates and persists a new bearer token for an authenticated user.
	Issue(ctx context.Context, identity authDomain.Identity) (*IssueTokenOutput, error)

	// Authenticate validates a token hash and returns the owning identity.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Identity, error)

	// Revoke marks the token with the given hash revoked.
	Revoke(ctx context.Context, tokenHash string) error
}
