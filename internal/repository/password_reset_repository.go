package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

// PasswordResetRepository provides database access for reset tokens.
type PasswordResetRepository struct {
	db *sqlx.DB
}

// NewPasswordResetRepository creates a new instance of PasswordResetRepository.
func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a new reset token.
func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	if reset.ID == "" {
		reset.ID = uuid.NewString()
	}
	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO password_resets (id, user_id, token, expires_at, used, created_at) VALUES (:id, :user_id, :token, :expires_at, :used, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reset); err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

// FindValid returns the token when it is unused and unexpired.
func (r *PasswordResetRepository) FindValid(ctx context.Context, token string) (*models.PasswordReset, error) {
	const query = `SELECT id, user_id, token, expires_at, used, created_at FROM password_resets WHERE token = $1 AND used = FALSE AND expires_at > $2 LIMIT 1`
	var reset models.PasswordReset
	if err := r.db.GetContext(ctx, &reset, query, token, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find password reset: %w", err)
	}
	return &reset, nil
}

// Consume atomically marks an unused, unexpired token as used and returns the
// owning user id. Two concurrent resets with the same token cannot both
// succeed: the conditional update matches at most one row, once.
func (r *PasswordResetRepository) Consume(ctx context.Context, token string) (string, error) {
	const query = `UPDATE password_resets SET used = TRUE WHERE token = $1 AND used = FALSE AND expires_at > $2 RETURNING user_id`
	var userID string
	if err := r.db.GetContext(ctx, &userID, query, token, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("consume password reset: %w", err)
	}
	return userID, nil
}

// Delete removes a stored token. Used to compensate when the reset email
// cannot be delivered.
func (r *PasswordResetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM password_resets WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	return nil
}
