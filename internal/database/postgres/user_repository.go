package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emelnikov/linkly/internal/database"
	"github.com/emelnikov/linkly/internal/models"
	"github.com/jmoiron/sqlx"
)

type userRecord struct {
	ID                  int64          `db:"id"`
	Username            string         `db:"username"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	Role                string         `db:"role"`
	Activated           bool           `db:"activated"`
	ActivationToken     sql.NullString `db:"activation_token"`
	ActivationExpiresAt sql.NullTime   `db:"activation_expires_at"`
	ResetToken          sql.NullString `db:"reset_token"`
	ResetExpiresAt      sql.NullTime   `db:"reset_expires_at"`
	CreatedAt           time.Time      `db:"created_at"`
}

func (r *userRecord) ToUser() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Activated:    r.Activated,
		CreatedAt:    r.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	const op = "database.postgres.UserRepository.Create"

	rec := new(userRecord)
	query := `INSERT INTO users(username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, username, email, passwordHash)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserExists)
		}

		return nil, fmt.Errorf("%s: failed to create user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

// GetByIdentifier looks up an account by email or username.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByIdentifier"

	rec := new(userRecord)
	query := `SELECT * FROM users
		WHERE email = $1 OR username = $1`

	err := r.db.GetContext(ctx, rec, query, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByID"

	rec := new(userRecord)
	query := `SELECT * FROM users
		WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) SetActivationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const op = "database.postgres.UserRepository.SetActivationToken"

	query := `UPDATE users
		SET activation_token = $1, activation_expires_at = $2
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to set activation token: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
	}

	return nil
}

// ActivateByToken consumes an unexpired activation token in a single
// statement, marking the account active and clearing the token so it
// can never be reused.
func (r *UserRepository) ActivateByToken(ctx context.Context, token string) (*models.User, error) {
	const op = "database.postgres.UserRepository.ActivateByToken"

	rec := new(userRecord)
	query := `UPDATE users
		SET activated = TRUE, activation_token = NULL, activation_expires_at = NULL
		WHERE activation_token = $1 AND activation_expires_at > now()
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrTokenInvalid)
		}

		return nil, fmt.Errorf("%s: failed to activate user: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) (*models.User, error) {
	const op = "database.postgres.UserRepository.SetResetToken"

	rec := new(userRecord)
	query := `UPDATE users
		SET reset_token = $1, reset_expires_at = $2
		WHERE email = $3
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, token, expiresAt, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to set reset token: %w", op, err)
	}

	return rec.ToUser(), nil
}

// ResetPasswordByToken replaces the password hash for the account holding
// an unexpired reset token and clears the token in the same statement.
func (r *UserRepository) ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	const op = "database.postgres.UserRepository.ResetPasswordByToken"

	rec := new(userRecord)
	query := `UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_expires_at = NULL
		WHERE reset_token = $2 AND reset_expires_at > now()
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, passwordHash, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrTokenInvalid)
		}

		return nil, fmt.Errorf("%s: failed to reset password: %w", op, err)
	}

	return rec.ToUser(), nil
}
