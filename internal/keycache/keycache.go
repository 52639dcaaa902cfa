// Package keycache provides the short-lived server-side cache that holds each
// logged-in user's raw data encryption key between login and token expiry.
//
// The cache is deliberately modeled as an explicit dependency (an interface
// injected into the use cases) rather than a package-level singleton, so tests
// can substitute their own instance and a networked TTL key-value store can be
// dropped in behind the same contract.
package keycache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache maps a user identity to the user's decrypted data encryption key.
//
// Entries expire independently of the caller: a Get on a missing or expired
// entry reports absence, which callers must interpret as "the session's
// encryption context is gone, re-authenticate", distinct from
// "wrong password" and from a server error.
//
// Operations are atomic at single-key granularity. Put is called once per
// successful login with a TTL equal to the bearer token lifetime, so the
// cached key and the token always expire together. Delete is best-effort
// logout hygiene; a failed delete is non-fatal since the TTL still applies.
type Cache interface {
	// Put stores the key for a user with the given time-to-live.
	Put(ctx context.Context, userID uuid.UUID, key []byte, ttl time.Duration) error

	// Get returns the cached key for a user, or ok=false if the entry is
	// missing or has expired.
	Get(ctx context.Context, userID uuid.UUID) (key []byte, ok bool, err error)

	// Delete removes the cached key for a user.
	Delete(ctx context.Context, userID uuid.UUID) error
}
