// Package usecase implements the note business logic: encrypt-on-write and
// decrypt-on-read against the session's cached data encryption key.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/note/domain"
)

// NoteRepository defines note repository operations. Every operation that
// touches an existing note is scoped by the owning user id.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Note, error)

	// Update returns domain.ErrNoteNotFound when no row matched the
	// (id, userID) pair.
	Update(ctx context.Context, note *domain.Note) error

	// Delete returns domain.ErrNoteNotFound when no row matched.
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// NoteInput contains the plaintext fields for a note create or update.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateOutput is the result of a note update. UpdatedAt is the new ordering
// signal the caller needs for last-write-wins reconciliation.
type UpdateOutput struct {
	UpdatedAt time.Time
}

// UseCase defines the interface for note business logic operations.
//
// All operations require the caller's data encryption key to be present in
// the key cache; a missing key surfaces as errors.ErrKeyUnavailable, which is
// a re-authentication signal, not a generic failure.
type UseCase interface {
	// Create seals the fields and persists a new note, returning the
	// plaintext the caller supplied.
	Create(ctx context.Context, userID uuid.UUID, input NoteInput) (*domain.DecryptedNote, error)

	// List returns the user's notes ordered by UpdatedAt descending, each
	// field decrypted independently.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.DecryptedNote, error)

	// Update re-seals the fields of an existing note.
	Update(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, input NoteInput) (*UpdateOutput, error)

	// Delete removes a note owned by the user.
	Delete(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error
}
