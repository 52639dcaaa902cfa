package domain

import (
	"fmt"
	"time"

	"github.com/allisson/litenotes/internal/errors"
)

// Authentication errors.
var (
	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials indicates the username/password pair did not
	// authenticate. Deliberately uniform whether the username exists or not,
	// to prevent user enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)

// LockoutError indicates the username is locked out after too many
// consecutive failed login attempts. RetryAfter is how long the caller must
// wait before the next attempt can succeed.
type LockoutError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *LockoutError) Error() string {
	return fmt.Sprintf("account locked, retry after %s", e.RetryAfter)
}

// Unwrap makes the lockout error match errors.ErrLocked.
func (e *LockoutError) Unwrap() error {
	return errors.ErrLocked
}
