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

// MySQLNoteRepository handles note persistence for MySQL.
type MySQLNoteRepository struct {
	db *sql.DB
}

// NewMySQLNoteRepository creates a new MySQLNoteRepository.
func NewMySQLNoteRepository(db *sql.DB) *MySQLNoteRepository {
	return &MySQLNoteRepository{
		db: db,
	}
}

// Create inserts a new note.
func (r *MySQLNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		note.ID.String(), note.UserID.String(), note.Title, note.Content,
		note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create note")
	}
	return nil
}

// ListByUser returns the user's notes ordered by updated_at descending.
func (r *MySQLNoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, content, created_at, updated_at
			  FROM notes WHERE user_id = ? ORDER BY updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanMySQLNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate notes")
	}
	return notes, nil
}

// GetByID retrieves a note by id, scoped to the owning user.
func (r *MySQLNoteRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Note, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, content, created_at, updated_at
			  FROM notes WHERE id = ? AND user_id = ?`

	var note domain.Note
	var idStr, userIDStr string

	err := querier.QueryRowContext(ctx, query, id.String(), userID.String()).Scan(
		&idStr, &userIDStr, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get note")
	}

	if note.ID, err = uuid.Parse(idStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse note id")
	}
	if note.UserID, err = uuid.Parse(userIDStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	return &note, nil
}

// Update replaces a note's fields, scoped to the owning user.
func (r *MySQLNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notes SET title = ?, content = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query,
		note.Title, note.Content, note.UpdatedAt, note.ID.String(), note.UserID.String(),
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
func (r *MySQLNoteRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM notes WHERE id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query, id.String(), userID.String())
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

// scanMySQLNote scans one note row, parsing the CHAR(36) UUID columns.
func scanMySQLNote(rows *sql.Rows) (*domain.Note, error) {
	var note domain.Note
	var idStr, userIDStr string

	if err := rows.Scan(
		&idStr, &userIDStr, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan note")
	}

	var err error
	if note.ID, err = uuid.Parse(idStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse note id")
	}
	if note.UserID, err = uuid.Parse(userIDStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	return &note, nil
}
