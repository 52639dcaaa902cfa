// Package domain defines the core note domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/errors"
)

// Note is a note as persisted: Title and Content hold ciphertext envelopes
// (or the empty string when the field was empty; empty fields are stored
// empty, never as an envelope of empty bytes). UpdatedAt is authoritative for
// ordering and last-write-wins conflict resolution between devices.
type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FieldResult is the outcome of decrypting one note field. A Failed result
// means the stored envelope would not open under the user's key; the value of
// a failed field is meaningless and must be replaced by a sentinel at the
// response boundary.
type FieldResult struct {
	Value  string
	Failed bool
}

// Ok builds a successful field result.
func Ok(value string) FieldResult {
	return FieldResult{Value: value}
}

// FailedField builds a failed field result.
func FailedField() FieldResult {
	return FieldResult{Failed: true}
}

// DecryptedNote is a note after per-field decryption. Each field carries its
// own outcome so one corrupt field never hides the rest of the note, and one
// corrupt note never aborts a listing.
type DecryptedNote struct {
	ID        uuid.UUID
	Title     FieldResult
	Content   FieldResult
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for note operations.
var (
	// ErrNoteNotFound indicates the note does not exist or belongs to another
	// user. The two cases are deliberately indistinguishable.
	ErrNoteNotFound = errors.Wrap(errors.ErrNotFound, "note not found")
)
