package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/litenotes/internal/crypto/service"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/keycache"
	"github.com/allisson/litenotes/internal/note/domain"
)

// mockNoteRepository is a mock implementation of NoteRepository for testing.
type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Note, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type noteFixture struct {
	uc     UseCase
	repo   *mockNoteRepository
	cache  *keycache.MemoryCache
	cipher cryptoService.EnvelopeCipher
	userID uuid.UUID
	dek    []byte
}

// newNoteFixture wires a NoteUseCase with a real envelope cipher, a real key
// cache holding a key for one logged-in user, and a mocked repository.
func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()

	cache := keycache.NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)

	cipher := cryptoService.NewEnvelopeCipher()
	keySvc := cryptoService.NewKeyService(cipher)
	dek, err := keySvc.GenerateDek()
	require.NoError(t, err)

	userID := uuid.Must(uuid.NewV7())
	require.NoError(t, cache.Put(context.Background(), userID, dek, time.Hour))

	repo := &mockNoteRepository{}
	return &noteFixture{
		uc:     NewNoteUseCase(repo, cipher, cache, slog.New(slog.NewTextHandler(io.Discard, nil))),
		repo:   repo,
		cache:  cache,
		cipher: cipher,
		userID: userID,
		dek:    dek,
	}
}

func TestNoteUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores ciphertext and returns the supplied plaintext", func(t *testing.T) {
		f := newNoteFixture(t)

		var stored *domain.Note
		f.repo.On("Create", ctx, mock.AnythingOfType("*domain.Note")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*domain.Note)
			}).
			Return(nil).Once()

		note, err := f.uc.Create(ctx, f.userID, NoteInput{Title: "groceries", Content: "milk, eggs"})
		require.NoError(t, err)

		assert.Equal(t, "groceries", note.Title.Value)
		assert.Equal(t, "milk, eggs", note.Content.Value)
		assert.False(t, note.Title.Failed)

		// What hit the repository is ciphertext that opens back to the input.
		require.NotNil(t, stored)
		assert.NotEqual(t, "groceries", stored.Title)
		assert.NotEqual(t, "milk, eggs", stored.Content)

		title, err := f.cipher.Open(stored.Title, f.dek)
		require.NoError(t, err)
		assert.Equal(t, "groceries", string(title))

		content, err := f.cipher.Open(stored.Content, f.dek)
		require.NoError(t, err)
		assert.Equal(t, "milk, eggs", string(content))
	})

	t.Run("empty fields are stored empty, not sealed", func(t *testing.T) {
		f := newNoteFixture(t)

		var stored *domain.Note
		f.repo.On("Create", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*domain.Note)
			}).
			Return(nil).Once()

		_, err := f.uc.Create(ctx, f.userID, NoteInput{Title: "only a title"})
		require.NoError(t, err)
		assert.Empty(t, stored.Content)
		assert.NotEmpty(t, stored.Title)
	})

	t.Run("missing cached key requires re-authentication", func(t *testing.T) {
		f := newNoteFixture(t)
		require.NoError(t, f.cache.Delete(ctx, f.userID))

		_, err := f.uc.Create(ctx, f.userID, NoteInput{Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrKeyUnavailable)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("oversized title is rejected", func(t *testing.T) {
		f := newNoteFixture(t)
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'a'
		}

		_, err := f.uc.Create(ctx, f.userID, NoteInput{Title: string(long)})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestNoteUseCase_List(t *testing.T) {
	ctx := context.Background()

	sealed := func(t *testing.T, f *noteFixture, value string) string {
		t.Helper()
		envelope, err := f.cipher.Seal([]byte(value), f.dek)
		require.NoError(t, err)
		return envelope
	}

	t.Run("round-trips created notes byte for byte", func(t *testing.T) {
		f := newNoteFixture(t)
		noteID := uuid.Must(uuid.NewV7())

		f.repo.On("ListByUser", ctx, f.userID).Return([]*domain.Note{
			{
				ID:      noteID,
				UserID:  f.userID,
				Title:   sealed(t, f, "groceries"),
				Content: sealed(t, f, "milk, eggs"),
			},
		}, nil).Once()

		notes, err := f.uc.List(ctx, f.userID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "groceries", notes[0].Title.Value)
		assert.Equal(t, "milk, eggs", notes[0].Content.Value)
	})

	t.Run("a corrupt field fails alone, other notes intact", func(t *testing.T) {
		f := newNoteFixture(t)

		f.repo.On("ListByUser", ctx, f.userID).Return([]*domain.Note{
			{
				ID:      uuid.Must(uuid.NewV7()),
				Title:   "not-a-valid-envelope!!",
				Content: sealed(t, f, "content still fine"),
			},
			{
				ID:      uuid.Must(uuid.NewV7()),
				Title:   sealed(t, f, "healthy note"),
				Content: sealed(t, f, "healthy content"),
			},
		}, nil).Once()

		notes, err := f.uc.List(ctx, f.userID)
		require.NoError(t, err)
		require.Len(t, notes, 2)

		assert.True(t, notes[0].Title.Failed)
		assert.False(t, notes[0].Content.Failed)
		assert.Equal(t, "content still fine", notes[0].Content.Value)

		assert.False(t, notes[1].Title.Failed)
		assert.Equal(t, "healthy note", notes[1].Title.Value)
	})

	t.Run("empty stored fields pass through as empty", func(t *testing.T) {
		f := newNoteFixture(t)

		f.repo.On("ListByUser", ctx, f.userID).Return([]*domain.Note{
			{ID: uuid.Must(uuid.NewV7()), Title: sealed(t, f, "t"), Content: ""},
		}, nil).Once()

		notes, err := f.uc.List(ctx, f.userID)
		require.NoError(t, err)
		assert.False(t, notes[0].Content.Failed)
		assert.Empty(t, notes[0].Content.Value)
	})

	t.Run("expired cache entry requires re-authentication", func(t *testing.T) {
		f := newNoteFixture(t)
		require.NoError(t, f.cache.Delete(ctx, f.userID))

		_, err := f.uc.List(ctx, f.userID)
		assert.ErrorIs(t, err, apperrors.ErrKeyUnavailable)
	})
}

func TestNoteUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("re-seals and returns the new updated_at", func(t *testing.T) {
		f := newNoteFixture(t)
		noteID := uuid.Must(uuid.NewV7())

		var stored *domain.Note
		f.repo.On("Update", ctx, mock.AnythingOfType("*domain.Note")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*domain.Note)
			}).
			Return(nil).Once()

		before := time.Now().UTC()
		output, err := f.uc.Update(ctx, f.userID, noteID, NoteInput{Title: "new title"})
		require.NoError(t, err)
		assert.False(t, output.UpdatedAt.Before(before))

		title, err := f.cipher.Open(stored.Title, f.dek)
		require.NoError(t, err)
		assert.Equal(t, "new title", string(title))
	})

	t.Run("unknown note returns not found", func(t *testing.T) {
		f := newNoteFixture(t)
		f.repo.On("Update", ctx, mock.Anything).Return(domain.ErrNoteNotFound).Once()

		_, err := f.uc.Update(ctx, f.userID, uuid.Must(uuid.NewV7()), NoteInput{Title: "x"})
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})

	t.Run("missing cached key requires re-authentication", func(t *testing.T) {
		f := newNoteFixture(t)
		require.NoError(t, f.cache.Delete(ctx, f.userID))

		_, err := f.uc.Update(ctx, f.userID, uuid.Must(uuid.NewV7()), NoteInput{Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrKeyUnavailable)
	})
}

func TestNoteUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		f := newNoteFixture(t)
		noteID := uuid.Must(uuid.NewV7())
		f.repo.On("Delete", ctx, noteID, f.userID).Return(nil).Once()

		assert.NoError(t, f.uc.Delete(ctx, f.userID, noteID))
		f.repo.AssertExpectations(t)
	})

	t.Run("another user's note is not found", func(t *testing.T) {
		f := newNoteFixture(t)
		noteID := uuid.Must(uuid.NewV7())
		f.repo.On("Delete", ctx, noteID, f.userID).Return(domain.ErrNoteNotFound).Once()

		err := f.uc.Delete(ctx, f.userID, noteID)
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})
}
