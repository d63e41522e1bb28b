package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/service"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/response"
)

// PurchaseHandler exposes the purchase lifecycle endpoints.
type PurchaseHandler struct {
	service *service.PurchaseService
}

// NewPurchaseHandler creates a new handler.
func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: svc}
}

// Checkout godoc
// @Summary Open a purchase
// @Description Create a pending purchase for a course
// @Tags Purchases
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /purchases [post]
func (h *PurchaseHandler) Checkout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		CourseID string `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "course_id is required"))
		return
	}

	purchase, err := h.service.Checkout(c.Request.Context(), claims.UserID, payload.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, purchase)
}

// Complete godoc
// @Summary Complete a purchase
// @Description Settle a pending purchase with a payment reference
// @Tags Purchases
// @Accept json
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /purchases/{id}/complete [post]
func (h *PurchaseHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		PaymentRef string `json:"payment_ref"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}

	purchase, err := h.service.Complete(c.Request.Context(), claims.UserID, c.Param("id"), payload.PaymentRef)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, purchase, nil)
}

// MyCourses godoc
// @Summary Courses the current user owns
// @Tags Purchases
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /purchases/my-courses [get]
func (h *PurchaseHandler) MyCourses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.service.MyCourses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, nil)
}
