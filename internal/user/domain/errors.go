package domain

import "github.com/allisson/litenotes/internal/errors"

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUsernameTaken indicates a user with the same username already exists.
	// The field is named so the API can tell the caller which value to change.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already taken")

	// ErrEmailTaken indicates a user with the same email already exists.
	ErrEmailTaken = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrResetTokenInvalid indicates the password reset token is unknown,
	// expired, or already used. Deliberately a single error for all three
	// cases so the response doesn't reveal which one applied.
	ErrResetTokenInvalid = errors.Wrap(errors.ErrInvalidInput, "invalid or expired reset token")
)
