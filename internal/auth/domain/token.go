// Package domain defines authentication domain models and errors.
//
// Authentication uses opaque bearer tokens: a random token is issued at login,
// only its SHA-256 hash is persisted, and each request is resolved back to a
// user through that hash. Tokens have a fixed lifetime matching the key cache
// TTL so the session and its encryption context expire together.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token represents an issued authentication token.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	UserID    uuid.UUID
	Username  string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Identity is the authenticated principal attached to a request after the
// bearer token has been validated.
type Identity struct {
	UserID   uuid.UUID
	Username string
}
