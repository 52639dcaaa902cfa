// Package service provides technical services for authentication operations:
// password hashing, opaque token generation, and login lockout tracking.
package service

import "time"

// PasswordService defines operations for password hashing and verification.
// This is the authentication secret derived from a user's password; it is
// deliberately independent of the KDF-derived key encryption key, so "the
// password hash matched" and "the data key unwrapped" stay separate facts.
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (hashedPassword string, err error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true if they match. Constant-time to prevent timing attacks.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// TokenService defines operations for authentication token generation and hashing.
// Implementations must use cryptographically secure random generation and
// fast hashing algorithms suitable for short-lived tokens (e.g., SHA-256).
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (to be shared with the caller) and
	// the hashed version (to be stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for token validation by comparing hashes.
	HashToken(plainToken string) string
}

// LockoutService tracks consecutive failed login attempts per username and
// enforces a lockout window once the configured maximum is reached.
type LockoutService interface {
	// Check returns a *domain.LockoutError if the username is currently
	// locked out, nil otherwise.
	Check(username string) error

	// RecordFailure registers a failed attempt for the username, starting the
	// lockout window when the failure count reaches the configured maximum.
	RecordFailure(username string)

	// Reset clears the failure state for the username after a successful login.
	Reset(username string)
}

// Clock abstracts the time source so lockout windows are testable.
type Clock func() time.Time
