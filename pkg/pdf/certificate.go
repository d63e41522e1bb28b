package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries everything printed on a completion certificate.
type CertificateData struct {
	RecipientName     string
	CourseTitle       string
	CompletionDate    time.Time
	CertificateNumber string
}

// CertificateRenderer composes completion certificates as landscape A4 PDFs.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a certificate renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render produces the full PDF byte stream for one certificate. The layout is
// fixed; rendering is stateless and synchronous.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.RecipientName == "" {
		return nil, fmt.Errorf("certificate requires a recipient name")
	}
	if data.CertificateNumber == "" {
		return nil, fmt.Errorf("certificate requires a certificate number")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()

	// Cream background.
	pdf.SetFillColor(255, 253, 247)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")

	// Double golden border.
	const borderMargin = 14.0
	pdf.SetDrawColor(212, 175, 55)
	pdf.SetLineWidth(1.2)
	pdf.Rect(borderMargin, borderMargin, pageWidth-2*borderMargin, pageHeight-2*borderMargin, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(borderMargin+3.5, borderMargin+3.5, pageWidth-2*(borderMargin+3.5), pageHeight-2*(borderMargin+3.5), "D")

	// Title.
	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetTextColor(184, 134, 11)
	pdf.SetY(42)
	pdf.CellFormat(0, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	// Rule under the title.
	lineWidth := 105.0
	pdf.SetLineWidth(0.8)
	pdf.Line(pageWidth/2-lineWidth/2, 62, pageWidth/2+lineWidth/2, 62)

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetY(74)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(88)
	pdf.CellFormat(0, 12, data.RecipientName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetY(106)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(118)
	pdf.CellFormat(0, 11, data.CourseTitle, "", 1, "C", false, 0, "")

	completed := data.CompletionDate
	if completed.IsZero() {
		completed = time.Now().UTC()
	}
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetY(140)
	pdf.CellFormat(0, 8, fmt.Sprintf("Awarded on %s", completed.Format("January 2, 2006")), "", 1, "C", false, 0, "")

	// Certificate number in the footer, used for public validation.
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetY(pageHeight - borderMargin - 16)
	pdf.CellFormat(0, 6, fmt.Sprintf("Certificate No. %s", data.CertificateNumber), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
