package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/service"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/response"
)

// CertificateHandler exposes certificate generation and validation.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Generate godoc
// @Summary Download a completion certificate
// @Description Issue the certificate on first request and stream the PDF
// @Tags Certificates
// @Produce application/pdf
// @Param courseId path string true "Course ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /certificates/{courseId}/generate [post]
func (h *CertificateHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	cert, pdfBytes, err := h.service.Generate(c.Request.Context(), claims.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate-%s.pdf", cert.CertificateNumber))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// Validate godoc
// @Summary Validate a certificate number
// @Description Public lookup of an issued certificate
// @Tags Certificates
// @Produce json
// @Param number path string true "Certificate number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/validate/{number} [get]
func (h *CertificateHandler) Validate(c *gin.Context) {
	summary, err := h.service.Validate(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
