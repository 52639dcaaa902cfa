package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
	authService "github.com/allisson/litenotes/internal/auth/service"
	authUseCase "github.com/allisson/litenotes/internal/auth/usecase"
	"github.com/allisson/litenotes/internal/config"
	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
	cryptoService "github.com/allisson/litenotes/internal/crypto/service"
	"github.com/allisson/litenotes/internal/database"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/keycache"
	"github.com/allisson/litenotes/internal/mail"
	"github.com/allisson/litenotes/internal/user/domain"
	appValidation "github.com/allisson/litenotes/internal/validation"
)

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	userRepo        UserRepository
	resetRepo       PasswordResetRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	tokenUseCase    authUseCase.TokenUseCase
	lockoutService  authService.LockoutService
	keyService      cryptoService.KeyService
	keyCache        keycache.Cache
	mailSender      mail.Sender
	logger          *slog.Logger
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	config *config.Config,
	txManager database.TxManager,
	userRepo UserRepository,
	resetRepo PasswordResetRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	tokenUseCase authUseCase.TokenUseCase,
	lockoutService authService.LockoutService,
	keyService cryptoService.KeyService,
	keyCache keycache.Cache,
	mailSender mail.Sender,
	logger *slog.Logger,
) UseCase {
	return &UserUseCase{
		config:          config,
		txManager:       txManager,
		userRepo:        userRepo,
		resetRepo:       resetRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		tokenUseCase:    tokenUseCase,
		lockoutService:  lockoutService,
		keyService:      keyService,
		keyCache:        keyCache,
		mailSender:      mailSender,
		logger:          logger,
	}
}

// validateRegisterInput validates registration input.
func (uc *UserUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 50).Error("username must be between 3 and 50 characters"),
			appValidation.Username,
		),
		validation.Field(&input.Email,
			validation.When(input.Email != "",
				appValidation.Email,
				validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
			),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(7, 128).Error("password must be between 7 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new user.
//
// Besides hashing the password it provisions the user's envelope encryption
// state: a random KDF salt, a random data encryption key (DEK), and the DEK
// sealed under a key encryption key derived from the password. The plaintext
// password and the raw DEK are never persisted.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	salt, err := uc.keyService.GenerateSalt()
	if err != nil {
		return nil, err
	}

	dek, err := uc.keyService.GenerateDek()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	kek := uc.keyService.DeriveKek([]byte(input.Password), salt)
	defer cryptoDomain.Zero(kek)

	wrappedDek, err := uc.keyService.WrapDek(dek, kek)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to wrap data key")
	}

	user := &domain.User{
		ID:             uuid.Must(uuid.NewV7()),
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.TrimSpace(strings.ToLower(input.Email)),
		PasswordHash:   hashedPassword,
		EncryptionSalt: salt,
		WrappedDek:     wrappedDek,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user and establishes the session's encryption context.
//
// Order matters here:
//  1. The lockout gate runs before anything else, so a correct password inside
//     an open lockout window is still rejected.
//  2. Unknown usernames and wrong passwords both count as failures and both
//     surface as the same ErrInvalidCredentials.
//  3. Only after the password hash verifies is the KEK derived and the DEK
//     unwrapped. An unwrap failure at that point means the stored envelope is
//     corrupt, which is reported as a key access error, never as bad
//     credentials.
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := uc.lockoutService.Check(input.Username); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			uc.lockoutService.RecordFailure(input.Username)
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.ComparePassword(input.Password, user.PasswordHash) {
		uc.lockoutService.RecordFailure(input.Username)
		return nil, authDomain.ErrInvalidCredentials
	}

	uc.lockoutService.Reset(input.Username)

	kek := uc.keyService.DeriveKek([]byte(input.Password), user.EncryptionSalt)
	dek, err := uc.keyService.UnwrapDek(user.WrappedDek, kek)
	cryptoDomain.Zero(kek)
	if err != nil {
		uc.logger.Error("data key unwrap failed after password verification",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err),
		)
		return nil, apperrors.Wrap(apperrors.ErrKeyAccess, "unable to unwrap data key")
	}
	defer cryptoDomain.Zero(dek)

	if err := uc.keyCache.Put(ctx, user.ID, dek, uc.config.AuthTokenExpiration); err != nil {
		return nil, apperrors.Wrap(err, "failed to cache data key")
	}

	output, err := uc.tokenUseCase.Issue(ctx, authDomain.Identity{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		// Without a token the cached key is unreachable; drop it.
		_ = uc.keyCache.Delete(ctx, user.ID)
		return nil, err
	}

	uc.logger.Info("user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
	)

	return &LoginOutput{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
		User:      user,
	}, nil
}

// Logout revokes the presented token and drops the cached data key. A failed
// cache delete is non-fatal: the TTL still bounds the entry's lifetime.
func (uc *UserUseCase) Logout(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	if err := uc.tokenUseCase.Revoke(ctx, tokenHash); err != nil {
		return err
	}

	if err := uc.keyCache.Delete(ctx, userID); err != nil {
		uc.logger.Warn("failed to delete cached data key on logout",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}

	return nil
}

// RequestPasswordReset creates a reset token for the account matching the
// email and sends the reset link. The caller always receives the same generic
// acknowledgement, whether or not the email is registered, to prevent account
// enumeration.
func (uc *UserUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	err := validation.Validate(email,
		validation.Required.Error("email is required"),
		appValidation.Email,
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			uc.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	plainToken, tokenHash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate reset token")
	}

	reset := &domain.PasswordReset{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().UTC().Add(uc.config.PasswordResetTokenExpiration),
	}

	if err := uc.resetRepo.Create(ctx, reset); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", uc.config.BaseURL, plainToken)
	msg := mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"A password reset was requested for your account.\n\n"+
				"Open the link below to choose a new password. The link expires in %s.\n\n%s\n\n"+
				"If you did not request this, you can ignore this email.",
			uc.config.PasswordResetTokenExpiration,
			resetLink,
		),
	}

	if err := uc.mailSender.Send(ctx, msg); err != nil {
		// A token that was never delivered is dead weight; remove it.
		if deleteErr := uc.resetRepo.Delete(ctx, reset.ID); deleteErr != nil {
			uc.logger.Warn("failed to delete undelivered reset token",
				slog.String("reset_id", reset.ID.String()),
				slog.Any("error", deleteErr),
			)
		}
		return apperrors.Wrap(err, "failed to send reset email")
	}

	uc.logger.Info("password reset email sent",
		slog.String("user_id", user.ID.String()),
	)

	return nil
}

// ResetPassword consumes a reset token and replaces the password hash together
// with the envelope state.
//
// The data encryption key cannot be unwrapped without the old password. When
// the raw DEK is still in the key cache (the user reset while logged in) it is
// re-wrapped under a KEK derived from the new password and a fresh salt, and
// existing notes stay readable. Otherwise a fresh DEK is generated and notes
// encrypted under the old one become unrecoverable; that is the price of
// password-derived encryption, not a bug.
func (uc *UserUseCase) ResetPassword(ctx context.Context, token string, newPassword string) error {
	err := validation.Validate(newPassword,
		validation.Required.Error("password is required"),
		validation.Length(7, 128).Error("password must be between 7 and 128 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	tokenHash := uc.tokenService.HashToken(token)

	reset, err := uc.resetRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	now := time.Now().UTC()
	if reset.UsedAt != nil || reset.ExpiresAt.Before(now) {
		return domain.ErrResetTokenInvalid
	}

	hashedPassword, err := uc.passwordService.HashPassword(newPassword)
	if err != nil {
		return apperrors.Wrap(err, "failed to hash password")
	}

	salt, err := uc.keyService.GenerateSalt()
	if err != nil {
		return err
	}

	dek, cached, err := uc.keyCache.Get(ctx, reset.UserID)
	if err != nil {
		return apperrors.Wrap(err, "failed to read key cache")
	}
	if !cached {
		dek, err = uc.keyService.GenerateDek()
		if err != nil {
			return err
		}
	}
	defer cryptoDomain.Zero(dek)

	kek := uc.keyService.DeriveKek([]byte(newPassword), salt)
	defer cryptoDomain.Zero(kek)

	wrappedDek, err := uc.keyService.WrapDek(dek, kek)
	if err != nil {
		return apperrors.Wrap(err, "failed to wrap data key")
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.UpdateCredentials(ctx, reset.UserID, hashedPassword, salt, wrappedDek); err != nil {
			return err
		}
		return uc.resetRepo.MarkUsed(ctx, reset.ID, now)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("password reset completed",
		slog.String("user_id", reset.UserID.String()),
		slog.Bool("data_key_rotated", !cached),
	)

	return nil
}

// GetByID retrieves a user by ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
