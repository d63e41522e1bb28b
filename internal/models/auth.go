package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest holds the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token and user info.
// The token is also set as an httpOnly cookie by the handler.
type LoginResponse struct {
	Token     string   `json:"-"`
	ExpiresIn int64    `json:"expires_in"`
	Message   string   `json:"message"`
	User      UserInfo `json:"user"`
}

// UpdateProfileRequest holds mutable profile fields.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// JWTClaims represents the JWT payload of the session token.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
