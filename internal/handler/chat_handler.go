package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/models"
	"github.com/skillhub-io/skillhub-api/internal/service"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/response"
)

// ChatHandler exposes the support-bot endpoints.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new handler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Send godoc
// @Summary Send a message to the support bot
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body models.SendChatMessageRequest true "Message payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "message is required"))
		return
	}

	reply, err := h.service.Send(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reply, nil)
}

// Welcome godoc
// @Summary Personalized support-bot greeting
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /chat/welcome [get]
func (h *ChatHandler) Welcome(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	message := h.service.Welcome(c.Request.Context(), claims.Name)
	response.JSON(c, http.StatusOK, gin.H{"message": message}, nil)
}

// History godoc
// @Summary Conversation history
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	history := h.service.History(c.Request.Context(), claims.UserID)
	response.JSON(c, http.StatusOK, history, nil)
}

// Reset godoc
// @Summary Reset the conversation
// @Tags Chat
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /chat [delete]
func (h *ChatHandler) Reset(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	h.service.Reset(c.Request.Context(), claims.UserID)
	response.NoContent(c)
}
