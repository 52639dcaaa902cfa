// Package service provides the cryptographic services for per-user envelope
// encryption: password-based key derivation, the AES-256-GCM envelope cipher,
// and wrap/unwrap of per-user data encryption keys.
package service

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// EnvelopeCipher seals plaintexts into self-describing envelopes and opens
// them again. An envelope is base64(nonce || ciphertext || tag), so Open
// needs nothing but the envelope and the key.
type EnvelopeCipher interface {
	// Seal encrypts plaintext under a 32-byte key with a fresh random nonce.
	Seal(plaintext, key []byte) (string, error)

	// Open decrypts an envelope under a 32-byte key. Malformed encodings,
	// truncated envelopes, and authentication failures are all reported as
	// domain.ErrDecryptionFailed (or domain.ErrMalformedEnvelope); Open never
	// returns unauthenticated plaintext.
	Open(envelope string, key []byte) ([]byte, error)
}

// KeyService manages per-user key material for the envelope scheme.
//
// A user's data encryption key (DEK) is generated once at registration and is
// only ever stored wrapped under a key encryption key (KEK) derived from the
// user's password and a per-user salt. DeriveKek is deterministic and does not
// verify the password: a wrong password only surfaces later as an UnwrapDek
// authentication failure.
type KeyService interface {
	// GenerateSalt returns a fresh random per-user KDF salt.
	GenerateSalt() ([]byte, error)

	// GenerateDek returns a fresh random 32-byte data encryption key.
	GenerateDek() ([]byte, error)

	// DeriveKek derives a 32-byte KEK from a plaintext password and salt.
	DeriveKek(password, salt []byte) []byte

	// WrapDek seals a DEK under a KEK, returning the stored envelope form.
	WrapDek(dek, kek []byte) (string, error)

	// UnwrapDek opens a wrapped DEK and validates its width.
	UnwrapDek(wrapped string, kek []byte) ([]byte, error)
}
