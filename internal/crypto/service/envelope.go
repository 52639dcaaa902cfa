package service

import (
	"crypto/rand"
	"encoding/base64"

	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
	apperrors "github.com/allisson/litenotes/internal/errors"
)

// envelopeCipher implements EnvelopeCipher on top of AESGCMCipher.
//
// Envelope layout: base64.StdEncoding(nonce || ciphertext || tag). The nonce
// is always domain.NonceSize bytes and the tag domain.TagSize bytes, so the
// envelope carries everything Open needs besides the key itself.
type envelopeCipher struct{}

// NewEnvelopeCipher creates the AES-256-GCM envelope cipher used for wrapping
// DEKs and for encrypting note fields.
func NewEnvelopeCipher() EnvelopeCipher {
	return &envelopeCipher{}
}

// Seal encrypts plaintext under key with a fresh random nonce and returns the
// encoded envelope.
func (e *envelopeCipher) Seal(plaintext, key []byte) (string, error) {
	if len(key) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}

	aead, err := NewAESGCM(key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create cipher")
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to seal envelope")
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open decodes and decrypts an envelope under key.
//
// Returns domain.ErrMalformedEnvelope for undecodable or truncated input and
// domain.ErrDecryptionFailed when tag verification fails. Both unwrap
// internal/errors.ErrInvalidInput; callers that must not fail per field catch
// them and substitute a sentinel at the response boundary.
func (e *envelopeCipher) Open(envelope string, key []byte) ([]byte, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	blob, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}

	// Smallest valid envelope: nonce + tag around an empty ciphertext.
	if len(blob) < cryptoDomain.NonceSize+cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}

	nonce := blob[:cryptoDomain.NonceSize]
	ciphertext := blob[cryptoDomain.NonceSize:]

	aead, err := NewAESGCM(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create cipher")
	}

	plaintext, err := aead.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// keyService implements KeyService using the KDF and the envelope cipher.
type keyService struct {
	cipher EnvelopeCipher
}

// NewKeyService creates a KeyService backed by the given envelope cipher.
func NewKeyService(cipher EnvelopeCipher) KeyService {
	return &keyService{cipher: cipher}
}

// GenerateSalt returns a fresh random per-user KDF salt.
func (k *keyService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate salt")
	}
	return salt, nil
}

// GenerateDek returns a fresh random 32-byte data encryption key.
func (k *keyService) GenerateDek() ([]byte, error) {
	dek := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dek); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate data key")
	}
	return dek, nil
}

// DeriveKek derives the key encryption key from a password and salt.
func (k *keyService) DeriveKek(password, salt []byte) []byte {
	return DeriveKey(password, salt)
}

// WrapDek seals the raw DEK under the KEK for persistence.
func (k *keyService) WrapDek(dek, kek []byte) (string, error) {
	if len(dek) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}
	return k.cipher.Seal(dek, kek)
}

// UnwrapDek opens a wrapped DEK and validates its width.
func (k *keyService) UnwrapDek(wrapped string, kek []byte) ([]byte, error) {
	dek, err := k.cipher.Open(wrapped, kek)
	if err != nil {
		return nil, err
	}
	if len(dek) != cryptoDomain.KeySize {
		cryptoDomain.Zero(dek)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return dek, nil
}
