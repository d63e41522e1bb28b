package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/models"
	"github.com/skillhub-io/skillhub-api/internal/service"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/response"
)

// ApplicationHandler exposes the instructor-application workflow.
type ApplicationHandler struct {
	service *service.ApplicationService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Submit godoc
// @Summary Submit an instructor application
// @Description Store the applicant profile and notify the director by email
// @Tags Instructor Applications
// @Accept json
// @Produce json
// @Param payload body models.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /instructor-applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	app, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app)
}

// Status godoc
// @Summary Check application status
// @Description Look up the latest application for an email address
// @Tags Instructor Applications
// @Produce json
// @Param email query string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor-applications/status [get]
func (h *ApplicationHandler) Status(c *gin.Context) {
	email := c.Query("email")
	summary, err := h.service.CheckStatus(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// Confirm godoc
// @Summary Confirm an application decision
// @Description Apply the accept or decline decision from the director email
// @Tags Instructor Applications
// @Accept json
// @Produce json
// @Param payload body models.ConfirmApplicationRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /instructor-applications/confirm [post]
func (h *ApplicationHandler) Confirm(c *gin.Context) {
	var req models.ConfirmApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
