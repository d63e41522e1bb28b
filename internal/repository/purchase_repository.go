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

// PurchaseRepository provides database access for course purchases.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a new purchase record.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	if purchase.Status == "" {
		purchase.Status = models.PurchasePending
	}
	now := time.Now().UTC()
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = now
	}
	purchase.UpdatedAt = now

	const query = `INSERT INTO purchases (id, user_id, course_id, amount, status, payment_ref, created_at, updated_at) VALUES (:id, :user_id, :course_id, :amount, :status, :payment_ref, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, purchase); err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// FindByID returns a purchase by identifier.
func (r *PurchaseRepository) FindByID(ctx context.Context, id string) (*models.Purchase, error) {
	const query = `SELECT id, user_id, course_id, amount, status, payment_ref, created_at, updated_at FROM purchases WHERE id = $1 LIMIT 1`
	var purchase models.Purchase
	if err := r.db.GetContext(ctx, &purchase, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find purchase by id: %w", err)
	}
	return &purchase, nil
}

// HasCompleted reports whether the user already owns the course.
func (r *PurchaseRepository) HasCompleted(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND course_id = $2 AND status = 'completed')`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID); err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return exists, nil
}

// MarkCompleted transitions a pending purchase to completed.
func (r *PurchaseRepository) MarkCompleted(ctx context.Context, id, paymentRef string) (*models.Purchase, error) {
	const query = `UPDATE purchases SET status = 'completed', payment_ref = $2, updated_at = $3 WHERE id = $1 AND status = 'pending' RETURNING id, user_id, course_id, amount, status, payment_ref, created_at, updated_at`
	var purchase models.Purchase
	if err := r.db.GetContext(ctx, &purchase, query, id, paymentRef, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("mark purchase completed: %w", err)
	}
	return &purchase, nil
}

// ListCompletedByUser returns the user's completed purchases joined with
// course details for listing.
func (r *PurchaseRepository) ListCompletedByUser(ctx context.Context, userID string) ([]models.PurchasedCourse, error) {
	const query = `SELECT p.id, p.user_id, p.course_id, p.amount, p.status, p.payment_ref, p.created_at, p.updated_at, c.title AS course_title, c.category, c.thumbnail_url, c.price FROM purchases p JOIN courses c ON c.id = p.course_id WHERE p.user_id = $1 AND p.status = 'completed' ORDER BY p.created_at DESC`
	var purchases []models.PurchasedCourse
	if err := r.db.SelectContext(ctx, &purchases, query, userID); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}
