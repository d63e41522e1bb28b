package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

// CertificateRepository provides database access for completion certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository creates a new instance of CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// FindByUserAndCourse returns the certificate for a user/course pair.
func (r *CertificateRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Certificate, error) {
	const query = `SELECT id, user_id, course_id, completion_date, certificate_number, status, created_at, updated_at FROM certificates WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return &cert, nil
}

// FindByNumber returns a certificate by its public number.
func (r *CertificateRepository) FindByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	const query = `SELECT id, user_id, course_id, completion_date, certificate_number, status, created_at, updated_at FROM certificates WHERE certificate_number = $1 LIMIT 1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, number); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certificate by number: %w", err)
	}
	return &cert, nil
}

// NumberExists reports whether a certificate number is already taken.
func (r *CertificateRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM certificates WHERE certificate_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, number); err != nil {
		return false, fmt.Errorf("check certificate number: %w", err)
	}
	return exists, nil
}

// Create inserts a new certificate record.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	if cert.Status == "" {
		cert.Status = models.CertificateGenerated
	}
	now := time.Now().UTC()
	if cert.CompletionDate.IsZero() {
		cert.CompletionDate = now
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now

	const query = `INSERT INTO certificates (id, user_id, course_id, completion_date, certificate_number, status, created_at, updated_at) VALUES (:id, :user_id, :course_id, :completion_date, :certificate_number, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}
