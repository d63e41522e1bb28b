package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/mailer"
)

type passwordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	FindValid(ctx context.Context, token string) (*models.PasswordReset, error)
	Consume(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, id string) error
}

type passwordResetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

// PasswordResetConfig defines configuration for the reset flow.
type PasswordResetConfig struct {
	FrontendURL string
	TokenTTL    time.Duration
}

// PasswordResetService issues, verifies and consumes single-use reset tokens.
type PasswordResetService struct {
	repo      passwordResetRepository
	users     passwordResetUserRepository
	mail      applicationMailer
	validator *validator.Validate
	logger    *zap.Logger
	config    PasswordResetConfig
}

// NewPasswordResetService constructs a PasswordResetService instance.
func NewPasswordResetService(repo passwordResetRepository, users passwordResetUserRepository, mail applicationMailer, validate *validator.Validate, logger *zap.Logger, config PasswordResetConfig) *PasswordResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = time.Hour
	}
	return &PasswordResetService{repo: repo, users: users, mail: mail, validator: validate, logger: logger, config: config}
}

// Request issues a reset token and emails the reset link. When the email
// cannot be delivered the stored token is deleted again so an undeliverable
// link can never linger as a valid credential.
func (s *PasswordResetService) Request(ctx context.Context, req models.RequestPasswordResetRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no account found with this email address")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	token, err := generateResetToken()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate reset token")
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.config.TokenTTL),
	}
	if err := s.repo.Create(ctx, reset); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reset request")
	}

	resetLink := strings.TrimRight(s.config.FrontendURL, "/") + "/reset-password/" + token
	if err := s.mail.Send(ctx, mailer.ChannelReset, map[string]interface{}{
		"email":      user.Email,
		"reset_link": resetLink,
	}); err != nil {
		if delErr := s.repo.Delete(ctx, reset.ID); delErr != nil {
			s.logger.Error("failed to roll back reset token after email failure",
				zap.String("reset_id", reset.ID),
				zap.Error(delErr),
			)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send reset email")
	}

	return nil
}

// Verify reports whether a token is still usable.
func (s *PasswordResetService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "invalid or expired reset link")
	}

	if _, err := s.repo.FindValid(ctx, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "invalid or expired reset link")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify reset token")
	}

	return nil
}

// Reset consumes the token and writes the new password hash. Consumption is
// a single conditional update, so two concurrent resets with the same token
// cannot both succeed.
func (s *PasswordResetService) Reset(ctx context.Context, token string, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}

	userID, err := s.repo.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "invalid or expired reset link")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	return nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
