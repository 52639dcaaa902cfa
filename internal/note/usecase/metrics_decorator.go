package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/metrics"
	"github.com/allisson/litenotes/internal/note/domain"
)

// noteUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type noteUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewNoteUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewNoteUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &noteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for note creation operations.
func (n *noteUseCaseWithMetrics) Create(
	ctx context.Context,
	userID uuid.UUID,
	input NoteInput,
) (*domain.DecryptedNote, error) {
	start := time.Now()
	note, err := n.next.Create(ctx, userID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", "note_create", status)
	n.metrics.RecordDuration(ctx, "notes", "note_create", time.Since(start), status)

	return note, err
}

// List records metrics for note listing operations.
func (n *noteUseCaseWithMetrics) List(ctx context.Context, userID uuid.UUID) ([]*domain.DecryptedNote, error) {
	start := time.Now()
	notes, err := n.next.List(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", "note_list", status)
	n.metrics.RecordDuration(ctx, "notes", "note_list", time.Since(start), status)

	return notes, err
}

// Update records metrics for note update operations.
func (n *noteUseCaseWithMetrics) Update(
	ctx context.Context,
	userID uuid.UUID,
	noteID uuid.UUID,
	input NoteInput,
) (*UpdateOutput, error) {
	start := time.Now()
	output, err := n.next.Update(ctx, userID, noteID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", "note_update", status)
	n.metrics.RecordDuration(ctx, "notes", "note_update", time.Since(start), status)

	return output, err
}

// Delete records metrics for note deletion operations.
func (n *noteUseCaseWithMetrics) Delete(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error {
	start := time.Now()
	err := n.next.Delete(ctx, userID, noteID)

	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", "note_delete", status)
	n.metrics.RecordDuration(ctx, "notes", "note_delete", time.Since(start), status)

	return err
}
