// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system.
//
// EncryptionSalt and WrappedDek carry the per-user envelope encryption state:
// the salt feeds the password-based key derivation, and WrappedDek is the
// user's data encryption key sealed under the derived key encryption key. The
// two are written together at registration and rotated together at password
// reset; a row never has one without the other.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHash   string
	EncryptionSalt []byte
	WrappedDek     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PasswordReset represents a single-use password reset token. Only the
// SHA-256 hash of the token is stored; the plain token exists only inside the
// reset email.
type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
