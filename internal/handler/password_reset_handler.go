package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/models"
	"github.com/skillhub-io/skillhub-api/internal/service"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/response"
)

// PasswordResetHandler exposes the email-driven password reset flow.
type PasswordResetHandler struct {
	service *service.PasswordResetService
}

// NewPasswordResetHandler creates a new handler.
func NewPasswordResetHandler(svc *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: svc}
}

// Request godoc
// @Summary Request a password reset
// @Description Email a single-use reset link to the account owner
// @Tags Password Reset
// @Accept json
// @Produce json
// @Param payload body models.RequestPasswordResetRequest true "Email payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /password-reset [post]
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var req models.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reset payload"))
		return
	}

	if err := h.service.Request(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "password reset email sent"}, nil)
}

// Verify godoc
// @Summary Verify a reset token
// @Description Check that a reset link is still valid without consuming it
// @Tags Password Reset
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /password-reset/{token} [get]
func (h *PasswordResetHandler) Verify(c *gin.Context) {
	if err := h.service.Verify(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"valid": true}, nil)
}

// Reset godoc
// @Summary Reset the password
// @Description Consume the token and store the new password
// @Tags Password Reset
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param payload body models.ResetPasswordRequest true "New password payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /password-reset/{token} [post]
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}

	if err := h.service.Reset(c.Request.Context(), c.Param("token"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "password updated"}, nil)
}
