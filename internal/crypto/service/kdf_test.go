package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
)

func TestDeriveKey(t *testing.T) {
	password := []byte("correct horse battery staple")
	salt := []byte("0123456789abcdef")

	t.Run("is deterministic", func(t *testing.T) {
		first := DeriveKey(password, salt)
		second := DeriveKey(password, salt)
		assert.Equal(t, first, second)
	})

	t.Run("produces a 32-byte key", func(t *testing.T) {
		key := DeriveKey(password, salt)
		assert.Len(t, key, cryptoDomain.KeySize)
	})

	t.Run("different passwords produce different keys", func(t *testing.T) {
		first := DeriveKey([]byte("password-one"), salt)
		second := DeriveKey([]byte("password-two"), salt)
		assert.NotEqual(t, first, second)
	})

	t.Run("different salts produce different keys", func(t *testing.T) {
		first := DeriveKey(password, []byte("salt-aaaaaaaaaaa"))
		second := DeriveKey(password, []byte("salt-bbbbbbbbbbb"))
		assert.NotEqual(t, first, second)
	})
}
