package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRendererProducesPDF(t *testing.T) {
	renderer := NewCertificateRenderer()

	out, err := renderer.Render(CertificateData{
		RecipientName:     "Jane Doe",
		CourseTitle:       "Go for Backend Engineers",
		CompletionDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CertificateNumber: "SKILL-2026-00042",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestCertificateRendererRequiresFields(t *testing.T) {
	renderer := NewCertificateRenderer()

	_, err := renderer.Render(CertificateData{CourseTitle: "Go"})
	require.Error(t, err)

	_, err = renderer.Render(CertificateData{RecipientName: "Jane Doe", CourseTitle: "Go"})
	require.Error(t, err)
}
