package models

import "time"

// PasswordReset is a single-use reset token bound to one user.
type PasswordReset struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RequestPasswordResetRequest starts the reset flow.
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow; the token travels in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
