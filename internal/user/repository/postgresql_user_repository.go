// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/litenotes/internal/database"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/user/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, encryption_salt, wrapped_dek, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		user.ID, user.Username, nullableEmail(user.Email),
		user.PasswordHash, user.EncryptionSalt, user.WrappedDek,
	)
	if err != nil {
		if uniqueErr := uniqueViolationError(err); uniqueErr != nil {
			return uniqueErr
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password_hash, encryption_salt, wrapped_dek, created_at, updated_at
			  FROM users WHERE id = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username.
func (r *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password_hash, encryption_salt, wrapped_dek, created_at, updated_at
			  FROM users WHERE username = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, username))
}

// GetByEmail retrieves a user by email.
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password_hash, encryption_salt, wrapped_dek, created_at, updated_at
			  FROM users WHERE email = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, email))
}

// UpdateCredentials replaces the password hash and envelope state in one statement.
func (r *PostgreSQLUserRepository) UpdateCredentials(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
	encryptionSalt []byte,
	wrappedDek string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET password_hash = $1, encryption_salt = $2, wrapped_dek = $3, updated_at = NOW()
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, passwordHash, encryptionSalt, wrappedDek, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credentials")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// scanUser scans a user row, mapping the nullable email column.
func (r *PostgreSQLUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var email sql.NullString

	err := row.Scan(
		&user.ID, &user.Username, &email, &user.PasswordHash,
		&user.EncryptionSalt, &user.WrappedDek, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	user.Email = email.String
	return &user, nil
}

// nullableEmail maps an empty email to NULL so the unique index only applies
// to accounts that actually have one.
func nullableEmail(email string) sql.NullString {
	return sql.NullString{String: email, Valid: email != ""}
}

// uniqueViolationError maps a unique constraint violation to the
// field-specific conflict error, or nil when err is something else. The field
// is identified by the violated constraint or key name, never by the full
// driver message: MySQL embeds the duplicate value in the message, so a
// username like "myemail" must not be misread as an email conflict.
func uniqueViolationError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		// "Duplicate entry '<value>' for key '<key>'": only the key name
		// after "for key" identifies the field.
		_, keyName, found := strings.Cut(mysqlErr.Message, "for key ")
		if found && strings.Contains(keyName, "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}

	return nil
}
