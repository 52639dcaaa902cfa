package domain

import (
	"github.com/allisson/litenotes/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors.
// Callers are expected to treat ErrDecryptionFailed as non-fatal per field:
// one corrupt envelope must never abort processing of the remaining data.
var (
	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// KEKs and DEKs must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMalformedEnvelope indicates an envelope could not be parsed at all:
	// bad base64 encoding or fewer bytes than one nonce plus one tag.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrDecryptionFailed indicates an envelope failed to open.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Corrupted encrypted data
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
