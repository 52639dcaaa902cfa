// Package repository provides data persistence implementations for note entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/database"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/note/domain"
)

// PostgreSQLNoteRepository handles note persistence for PostgreSQL.
type PostgreSQLNoteRepository struct {
	db *sql.DB
}

// NewPostgreSQLNoteRepository creates a new PostgreSQLNoteRepository.
func NewPostgreSQLNoteRepository(db *sql.DB) *PostgreSQLNoteRepository {
	return &PostgreSQLNoteRepository{
		db: db,
	}
}

// Create inserts a new note.
func (r *PostgreSQLNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create note")
	}
	return nil
}

// ListByUser returns the user's notes ordered by updated_at descending,
// the authoritative ordering for multi-device reconciliation.
func (r *PostgreSQLNoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, content, created_at, updated_at
			  FROM notes WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan note")
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate notes")
	}
	return notes, nil
}

// GetByID retrieves a note by id, scoped to the owning user.
func (r *PostgreSQLNoteRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Note, error) {
	var note domain.Note
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, content, created_at, updated_at
			  FROM notes WHERE id = $1 AND user_id = $2`

	err := querier.QueryRowContext(ctx, query, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get note")
	}
	return &note, nil
}

// Update replaces a note's fields, scoped to the owning user. A missing or
// foreign note reports not found either way.
func (r *PostgreSQLNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notes SET title = $1, content = $2, updated_at = $3
			  WHERE id = $4 AND user_id = $5`

	result, err := querier.ExecContext(ctx, query,
		note.Title, note.Content, note.UpdatedAt, note.ID, note.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update note")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

// Delete removes a note, scoped to the owning user.
func (r *PostgreSQLNoteRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete note")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}
