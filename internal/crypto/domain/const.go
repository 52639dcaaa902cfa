package domain

// Sizes of the cryptographic primitives used by the envelope scheme.
//
// All key material is 256 bits. The envelope format is AES-256-GCM with a
// random 96-bit nonce per seal operation and a 128-bit authentication tag,
// stored as base64(nonce || ciphertext || tag) so an envelope is
// self-describing and can be opened with nothing but the key.
const (
	// KeySize is the size in bytes of KEKs and DEKs (256 bits).
	KeySize = 32

	// SaltSize is the size in bytes of the per-user KDF salt, generated once
	// at registration and immutable afterwards.
	SaltSize = 16

	// NonceSize is the AES-GCM nonce size in bytes (96 bits).
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size in bytes (128 bits).
	TagSize = 16

	// KdfIterations is the PBKDF2-HMAC-SHA512 work factor used to derive a
	// KEK from a user password. Fixed: changing it would make every stored
	// wrapped DEK impossible to unwrap.
	KdfIterations = 100_000
)
