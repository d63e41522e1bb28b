package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/pdf"
)

const certificateNumberAttempts = 5

type certificateRepository interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Certificate, error)
	FindByNumber(ctx context.Context, number string) (*models.Certificate, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, cert *models.Certificate) error
}

type certificateProgressRepository interface {
	FindCompleted(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
}

type certificateCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type certificateUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type certificateRenderer interface {
	Render(data pdf.CertificateData) ([]byte, error)
}

// CertificateService issues and validates completion certificates. The
// certificate row is created lazily on first request and is stable across
// calls; the PDF bytes are rendered fresh every time.
type CertificateService struct {
	repo     certificateRepository
	progress certificateProgressRepository
	courses  certificateCourseRepository
	users    certificateUserRepository
	renderer certificateRenderer
	logger   *zap.Logger
}

// NewCertificateService constructs a CertificateService instance.
func NewCertificateService(repo certificateRepository, progress certificateProgressRepository, courses certificateCourseRepository, users certificateUserRepository, renderer certificateRenderer, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, progress: progress, courses: courses, users: users, renderer: renderer, logger: logger}
}

// Generate confirms completion, creates the certificate row when absent and
// renders the PDF synchronously.
func (s *CertificateService) Generate(ctx context.Context, userID, courseID string) (*models.Certificate, []byte, error) {
	if _, err := s.progress.FindCompleted(ctx, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "course not completed yet")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course progress")
	}

	cert, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
		}
		cert, err = s.issue(ctx, userID, courseID)
		if err != nil {
			return nil, nil, err
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recipient")
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	bytes, err := s.renderer.Render(pdf.CertificateData{
		RecipientName:     user.Name,
		CourseTitle:       course.Title,
		CompletionDate:    cert.CompletionDate,
		CertificateNumber: cert.CertificateNumber,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	return cert, bytes, nil
}

// Validate returns the public summary for a certificate number.
func (s *CertificateService) Validate(ctx context.Context, number string) (*models.CertificateSummary, error) {
	cert, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}

	summary := &models.CertificateSummary{
		CertificateNumber: cert.CertificateNumber,
		CompletionDate:    cert.CompletionDate,
		Status:            cert.Status,
	}
	if user, err := s.users.FindByID(ctx, cert.UserID); err == nil {
		summary.RecipientName = user.Name
	}
	if course, err := s.courses.FindByID(ctx, cert.CourseID); err == nil {
		summary.CourseTitle = course.Title
	}
	return summary, nil
}

func (s *CertificateService) issue(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	number, err := s.uniqueNumber(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate certificate number")
	}

	cert := &models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: number,
		Status:            models.CertificateGenerated,
		CompletionDate:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create certificate")
	}

	s.logger.Info("certificate issued",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
		zap.String("certificate_number", number),
	)
	return cert, nil
}

// uniqueNumber allocates a SKILL-<year>-<5 digits> number, re-rolling on the
// rare collision. The unique index on certificate_number backstops the check.
func (s *CertificateService) uniqueNumber(ctx context.Context) (string, error) {
	for i := 0; i < certificateNumberAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(100000))
		if err != nil {
			return "", err
		}
		number := fmt.Sprintf("SKILL-%d-%05d", time.Now().UTC().Year(), n.Int64())

		exists, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("exhausted certificate number attempts")
}
