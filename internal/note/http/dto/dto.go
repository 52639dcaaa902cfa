// Package dto provides data transfer objects for the note HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/note/domain"
	"github.com/allisson/litenotes/internal/note/usecase"
)

// DecryptionFailedSentinel is the value returned for a note field whose
// stored envelope would not open. It exists only at this boundary; the
// domain keeps the failure as a tagged result so it can never be confused
// with a note that legitimately contains this text.
const DecryptionFailedSentinel = "[unable to decrypt]"

// NoteRequest represents the API request for creating or updating a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteResponse represents the API response for a note.
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateNoteResponse represents the API response for a note update.
type UpdateNoteResponse struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// ToNoteInput converts a NoteRequest to the use case input.
func ToNoteInput(req NoteRequest) usecase.NoteInput {
	return usecase.NoteInput{
		Title:   req.Title,
		Content: req.Content,
	}
}

// fieldValue collapses a tagged field result into its external string form.
func fieldValue(field domain.FieldResult) string {
	if field.Failed {
		return DecryptionFailedSentinel
	}
	return field.Value
}

// ToNoteResponse converts a decrypted note to its external representation.
func ToNoteResponse(note *domain.DecryptedNote) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     fieldValue(note.Title),
		Content:   fieldValue(note.Content),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ToNoteListResponse converts a slice of decrypted notes.
func ToNoteListResponse(notes []*domain.DecryptedNote) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, ToNoteResponse(note))
	}
	return responses
}
