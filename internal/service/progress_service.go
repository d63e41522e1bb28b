package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

type progressRepository interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
	SetCompleted(ctx context.Context, userID, courseID string, completed bool) error
	MarkLectureViewed(ctx context.Context, userID, courseID, lectureID string) error
	ListViewedLectures(ctx context.Context, userID, courseID string) ([]string, error)
}

type progressAccessChecker interface {
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
}

// ProgressService tracks lecture views and course completion per user.
type ProgressService struct {
	repo   progressRepository
	access progressAccessChecker
	logger *zap.Logger
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(repo progressRepository, access progressAccessChecker, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{repo: repo, access: access, logger: logger}
}

func (s *ProgressService) requireAccess(ctx context.Context, userID, courseID string) error {
	owned, err := s.access.HasAccess(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !owned {
		return appErrors.Clone(appErrors.ErrForbidden, "course not purchased")
	}
	return nil
}

// Summary returns the user's progress for one course.
func (s *ProgressService) Summary(ctx context.Context, userID, courseID string) (*models.ProgressSummary, error) {
	if err := s.requireAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}

	summary := &models.ProgressSummary{CourseID: courseID, ViewedLectures: []string{}}

	progress, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress")
	}
	if progress != nil {
		summary.Completed = progress.Completed
	}

	viewed, err := s.repo.ListViewedLectures(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load viewed lectures")
	}
	if viewed != nil {
		summary.ViewedLectures = viewed
	}
	return summary, nil
}

// MarkLectureViewed records one lecture as watched. Repeated views are no-ops.
func (s *ProgressService) MarkLectureViewed(ctx context.Context, userID, courseID, lectureID string) error {
	if lectureID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "lecture id is required")
	}
	if err := s.requireAccess(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.repo.MarkLectureViewed(ctx, userID, courseID, lectureID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record lecture view")
	}
	return nil
}

// SetCompleted flips the completion flag for the user's course.
func (s *ProgressService) SetCompleted(ctx context.Context, userID, courseID string, completed bool) error {
	if err := s.requireAccess(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.repo.SetCompleted(ctx, userID, courseID, completed); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}
	s.logger.Debug("course completion updated",
		zap.String("course_id", courseID),
		zap.Bool("completed", completed))
	return nil
}
