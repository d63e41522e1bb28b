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

// ProgressRepository provides database access for course progress tracking.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new instance of ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// FindByUserAndCourse returns the user's progress for one course.
func (r *ProgressRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	const query = `SELECT id, user_id, course_id, completed, created_at, updated_at FROM course_progress WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var progress models.CourseProgress
	if err := r.db.GetContext(ctx, &progress, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course progress: %w", err)
	}
	return &progress, nil
}

// FindCompleted returns progress only when the course is marked completed.
func (r *ProgressRepository) FindCompleted(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	const query = `SELECT id, user_id, course_id, completed, created_at, updated_at FROM course_progress WHERE user_id = $1 AND course_id = $2 AND completed = TRUE LIMIT 1`
	var progress models.CourseProgress
	if err := r.db.GetContext(ctx, &progress, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find completed progress: %w", err)
	}
	return &progress, nil
}

// SetCompleted upserts the completion flag for a user/course pair.
func (r *ProgressRepository) SetCompleted(ctx context.Context, userID, courseID string, completed bool) error {
	now := time.Now().UTC()
	const query = `INSERT INTO course_progress (id, user_id, course_id, completed, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5) ON CONFLICT (user_id, course_id) DO UPDATE SET completed = $4, updated_at = $5`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, courseID, completed, now); err != nil {
		return fmt.Errorf("set course completion: %w", err)
	}
	return nil
}

// MarkLectureViewed records a lecture view, idempotently.
func (r *ProgressRepository) MarkLectureViewed(ctx context.Context, userID, courseID, lectureID string) error {
	now := time.Now().UTC()
	const query = `INSERT INTO lecture_views (id, user_id, course_id, lecture_id, viewed_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (user_id, lecture_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, courseID, lectureID, now); err != nil {
		return fmt.Errorf("mark lecture viewed: %w", err)
	}
	return nil
}

// ListViewedLectures returns lecture ids the user has viewed in a course.
func (r *ProgressRepository) ListViewedLectures(ctx context.Context, userID, courseID string) ([]string, error) {
	const query = `SELECT lecture_id FROM lecture_views WHERE user_id = $1 AND course_id = $2 ORDER BY viewed_at ASC`
	var lectureIDs []string
	if err := r.db.SelectContext(ctx, &lectureIDs, query, userID, courseID); err != nil {
		return nil, fmt.Errorf("list viewed lectures: %w", err)
	}
	return lectureIDs, nil
}
