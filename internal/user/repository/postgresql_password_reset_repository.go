package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/litenotes/internal/database"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/user/domain"
)

// PostgreSQLPasswordResetRepository handles password reset token persistence for PostgreSQL.
type PostgreSQLPasswordResetRepository struct {
	db *sql.DB
}

// NewPostgreSQLPasswordResetRepository creates a new PostgreSQLPasswordResetRepository.
func NewPostgreSQLPasswordResetRepository(db *sql.DB) *PostgreSQLPasswordResetRepository {
	return &PostgreSQLPasswordResetRepository{
		db: db,
	}
}

// Create inserts a new password reset token.
func (r *PostgreSQLPasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO password_resets (id, user_id, token_hash, expires_at, used_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := querier.ExecContext(ctx, query,
		reset.ID, reset.UserID, reset.TokenHash, reset.ExpiresAt, reset.UsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create password reset")
	}
	return nil
}

// GetByTokenHash retrieves a password reset by its token hash.
func (r *PostgreSQLPasswordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, token_hash, expires_at, used_at, created_at
			  FROM password_resets WHERE token_hash = $1`

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&reset.ID, &reset.UserID, &reset.TokenHash, &reset.ExpiresAt, &reset.UsedAt, &reset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "password reset not found")
		}
		return nil, apperrors.Wrap(err, "failed to get password reset")
	}

	return &reset, nil
}

// MarkUsed marks a password reset token as consumed.
func (r *PostgreSQLPasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`

	result, err := querier.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark password reset used")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrResetTokenInvalid
	}
	return nil
}

// Delete removes a password reset token.
func (r *PostgreSQLPasswordResetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM password_resets WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete password reset")
	}
	return nil
}

// DeleteExpired removes password reset tokens that expired before the given time.
func (r *PostgreSQLPasswordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM password_resets WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired password resets")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows, nil
}
