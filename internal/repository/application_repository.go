package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

// ApplicationRepository provides database access for instructor applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application in pending state.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.InstructorApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	const query = `INSERT INTO instructor_applications (id, name, email, phone, expertise_area, experience, why_teach, qualifications, availability, status, created_at, updated_at) VALUES (:id, :name, :email, :phone, :expertise_area, :experience, :why_teach, :qualifications, :availability, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create instructor application: %w", err)
	}
	return nil
}

// FindByEmail returns the most recent application for an email.
func (r *ApplicationRepository) FindByEmail(ctx context.Context, email string) (*models.InstructorApplication, error) {
	const query = `SELECT id, name, email, phone, expertise_area, experience, why_teach, qualifications, availability, status, created_at, updated_at FROM instructor_applications WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	var app models.InstructorApplication
	if err := r.db.GetContext(ctx, &app, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application by email: %w", err)
	}
	return &app, nil
}

// UpdateStatusIfPending transitions a pending application to the given status
// and returns the updated row. The WHERE clause on status = 'pending' is the
// sole concurrency guard: a second confirm for the same email matches no row
// and gets sql.ErrNoRows.
func (r *ApplicationRepository) UpdateStatusIfPending(ctx context.Context, email string, status models.ApplicationStatus) (*models.InstructorApplication, error) {
	const query = `UPDATE instructor_applications SET status = $2, updated_at = $3 WHERE email = $1 AND status = 'pending' RETURNING id, name, email, phone, expertise_area, experience, why_teach, qualifications, availability, status, created_at, updated_at`
	var app models.InstructorApplication
	if err := r.db.GetContext(ctx, &app, query, strings.ToLower(strings.TrimSpace(email)), status, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return &app, nil
}
