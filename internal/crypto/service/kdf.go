package service

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
)

// DeriveKey derives a 32-byte key encryption key from a plaintext password and
// a per-user salt using PBKDF2-HMAC-SHA512 with a fixed work factor
// (domain.KdfIterations).
//
// The derivation is deterministic: identical inputs always produce identical
// output, which is what makes unwrap-on-login possible. It is intentionally
// slow (tens of milliseconds) to resist offline guessing. It does NOT verify
// the password: derivation with a wrong password "succeeds" and the mistake
// only shows up as an authentication failure when the derived key is used to
// open the stored wrapped DEK.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, cryptoDomain.KdfIterations, cryptoDomain.KeySize, sha512.New)
}
