package keycache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock is a controllable time source for expiry tests.
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.current
}

func (f *fakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func TestMemoryCache_PutGet(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns what was put", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		userID := uuid.Must(uuid.NewV7())
		key := []byte("0123456789abcdef0123456789abcdef")

		require.NoError(t, cache.Put(ctx, userID, key, time.Hour))

		got, ok, err := cache.Get(ctx, userID)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, key, got)
	})

	t.Run("get on unknown user reports absent", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		got, ok, err := cache.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("returned key is a copy", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		userID := uuid.Must(uuid.NewV7())
		require.NoError(t, cache.Put(ctx, userID, []byte("secret-key-material-32-bytes-ok!"), time.Hour))

		first, ok, err := cache.Get(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		first[0] = 'X'

		second, ok, err := cache.Get(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotEqual(t, first[0], second[0])
	})

	t.Run("put replaces the previous entry", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		userID := uuid.Must(uuid.NewV7())
		require.NoError(t, cache.Put(ctx, userID, []byte("first"), time.Hour))
		require.NoError(t, cache.Put(ctx, userID, []byte("second"), time.Hour))

		got, ok, err := cache.Get(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("second"), got)
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()

	t.Run("entry expires after ttl", func(t *testing.T) {
		clock := &fakeClock{current: time.Now()}
		cache := NewMemoryCache(time.Minute, WithClock(clock.Now))
		defer cache.Close()

		userID := uuid.Must(uuid.NewV7())
		require.NoError(t, cache.Put(ctx, userID, []byte("key"), time.Hour))

		clock.Advance(59 * time.Minute)
		_, ok, err := cache.Get(ctx, userID)
		require.NoError(t, err)
		assert.True(t, ok)

		clock.Advance(time.Minute)
		_, ok, err = cache.Get(ctx, userID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		userID := uuid.Must(uuid.NewV7())
		require.NoError(t, cache.Put(ctx, userID, []byte("key"), time.Hour))
		require.NoError(t, cache.Delete(ctx, userID))

		_, ok, err := cache.Get(ctx, userID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete on unknown user is a no-op", func(t *testing.T) {
		cache := NewMemoryCache(time.Minute)
		defer cache.Close()

		assert.NoError(t, cache.Delete(ctx, uuid.Must(uuid.NewV7())))
	})
}
