package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

type purchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByID(ctx context.Context, id string) (*models.Purchase, error)
	HasCompleted(ctx context.Context, userID, courseID string) (bool, error)
	MarkCompleted(ctx context.Context, id, paymentRef string) (*models.Purchase, error)
	ListCompletedByUser(ctx context.Context, userID string) ([]models.PurchasedCourse, error)
}

type purchaseCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// PurchaseService owns the purchase lifecycle from checkout to completion.
type PurchaseService struct {
	repo    purchaseRepository
	courses purchaseCourseRepository
	logger  *zap.Logger
}

// NewPurchaseService constructs a PurchaseService instance.
func NewPurchaseService(repo purchaseRepository, courses purchaseCourseRepository, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{repo: repo, courses: courses, logger: logger}
}

// Checkout opens a pending purchase for the given course.
func (s *PurchaseService) Checkout(ctx context.Context, userID, courseID string) (*models.Purchase, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	owned, err := s.repo.HasCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check purchase history")
	}
	if owned {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course already purchased")
	}

	purchase := &models.Purchase{
		UserID:   userID,
		CourseID: courseID,
		Amount:   course.Price,
		Status:   models.PurchasePending,
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create purchase")
	}

	s.logger.Info("purchase opened",
		zap.String("purchase_id", purchase.ID),
		zap.String("course_id", courseID),
		zap.Float64("amount", purchase.Amount))
	return purchase, nil
}

// Complete marks a pending purchase as paid. A purchase already settled
// cannot be completed again.
func (s *PurchaseService) Complete(ctx context.Context, userID, purchaseID, paymentRef string) (*models.Purchase, error) {
	existing, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase")
	}
	if existing.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "purchase belongs to another user")
	}

	purchase, err := s.repo.MarkCompleted(ctx, purchaseID, paymentRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "purchase is not pending")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete purchase")
	}

	s.logger.Info("purchase completed",
		zap.String("purchase_id", purchase.ID),
		zap.String("course_id", purchase.CourseID))
	return purchase, nil
}

// MyCourses lists every course the user has paid for.
func (s *PurchaseService) MyCourses(ctx context.Context, userID string) ([]models.PurchasedCourse, error) {
	purchases, err := s.repo.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchases")
	}
	return purchases, nil
}

// HasAccess reports whether the user owns a completed purchase of the course.
func (s *PurchaseService) HasAccess(ctx context.Context, userID, courseID string) (bool, error) {
	owned, err := s.repo.HasCompleted(ctx, userID, courseID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check purchase history")
	}
	return owned, nil
}

// DetailWithStatus returns a course together with the caller's purchase state.
func (s *PurchaseService) DetailWithStatus(ctx context.Context, userID, courseID string) (*models.CourseDetailWithStatus, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	purchased := false
	if userID != "" {
		purchased, err = s.repo.HasCompleted(ctx, userID, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check purchase history")
		}
	}
	return &models.CourseDetailWithStatus{Course: *course, Purchased: purchased}, nil
}
