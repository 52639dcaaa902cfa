package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
	authService "github.com/allisson/litenotes/internal/auth/service"
	"github.com/allisson/litenotes/internal/config"
)

// tokenUseCase implements TokenUseCase for managing authentication tokens.
type tokenUseCase struct {
	config       *config.Config
	tokenRepo    TokenRepository
	tokenService authService.TokenService
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	tokenRepo TokenRepository,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:       config,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
	}
}

// Issue generates a new bearer token for the given identity and persists its
// hash with an expiry of Config.AuthTokenExpiration. The plain token is only
// returned once; the caller must transmit it securely.
func (t *tokenUseCase) Issue(ctx context.Context, identity authDomain.Identity) (*IssueTokenOutput, error) {
	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(t.config.AuthTokenExpiration)
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		UserID:    identity.UserID,
		Username:  identity.Username,
		ExpiresAt: expiresAt,
		RevokedAt: nil,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  expiresAt,
	}, nil
}

// Authenticate validates a token hash and returns the owning identity.
//
// Returns ErrInvalidCredentials for a token that is unknown, expired, or
// revoked; all three look identical to the caller to prevent enumeration
// and information leakage. Time comparisons use UTC.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Identity, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if token.ExpiresAt.Before(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if token.RevokedAt != nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	return &authDomain.Identity{
		UserID:   token.UserID,
		Username: token.Username,
	}, nil
}

// Revoke marks the token revoked. Revoking an already revoked or unknown
// token is not an error; logout stays idempotent.
func (t *tokenUseCase) Revoke(ctx context.Context, tokenHash string) error {
	return t.tokenRepo.Revoke(ctx, tokenHash, time.Now().UTC())
}
