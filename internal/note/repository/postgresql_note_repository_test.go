package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/litenotes/internal/note/domain"
)

func newMockRepo(t *testing.T) (*PostgreSQLNoteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLNoteRepository(db), mock
}

func TestPostgreSQLNoteRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	note := &domain.Note{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		Title:     "sealed-title",
		Content:   "sealed-content",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO notes`).
		WithArgs(note.ID, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), note)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLNoteRepository_ListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.Must(uuid.NewV7())
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
		AddRow(uuid.Must(uuid.NewV7()), userID, "newer", "c1", now, now).
		AddRow(uuid.Must(uuid.NewV7()), userID, "older", "c2", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .+ FROM notes WHERE user_id .+ ORDER BY updated_at DESC`).
		WithArgs(userID).
		WillReturnRows(rows)

	notes, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "newer", notes[0].Title)
	assert.Equal(t, "older", notes[1].Title)
}

func TestPostgreSQLNoteRepository_Update(t *testing.T) {
	t.Run("updates the owner's note", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		note := &domain.Note{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    uuid.Must(uuid.NewV7()),
			Title:     "new-sealed-title",
			Content:   "new-sealed-content",
			UpdatedAt: time.Now(),
		}

		mock.ExpectExec(`UPDATE notes SET title`).
			WithArgs(note.Title, note.Content, note.UpdatedAt, note.ID, note.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), note))
	})

	t.Run("zero affected rows is not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		note := &domain.Note{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: uuid.Must(uuid.NewV7()),
		}

		mock.ExpectExec(`UPDATE notes SET title`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), note)
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})
}

func TestPostgreSQLNoteRepository_Delete(t *testing.T) {
	t.Run("deletes the owner's note", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.Must(uuid.NewV7())
		userID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`DELETE FROM notes WHERE id`).
			WithArgs(id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id, userID))
	})

	t.Run("another user's note is not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(`DELETE FROM notes WHERE id`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})
}
