package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

const catalogCacheKey = "catalog:published"

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	ListPublished(ctx context.Context) ([]models.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error)
	Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListLectures(ctx context.Context, courseID string) ([]models.Lecture, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CourseConfig tunes catalog behaviour.
type CourseConfig struct {
	CacheTTL time.Duration
}

// CourseService manages course authoring and the public catalog.
type CourseService struct {
	repo      courseRepository
	cache     catalogCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    CourseConfig
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRepository, cache catalogCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config CourseConfig) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &CourseService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, config: config}
}

// Create authors a new unpublished course.
func (s *CourseService) Create(ctx context.Context, creatorID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course title and category are required")
	}

	course := &models.Course{
		Title:     req.Title,
		Category:  req.Category,
		Level:     models.LevelBeginner,
		CreatorID: creatorID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Published returns the public catalog, served from cache when warm.
func (s *CourseService) Published(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		start := time.Now()
		var cached []models.Course
		err := s.cache.Get(ctx, catalogCacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache lookup failed", zap.Error(err))
		}
	}

	dbStart := time.Now()
	courses, err := s.repo.ListPublished(ctx)
	s.metrics.ObserveDBQuery("courses_list_published", time.Since(dbStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, courses, s.config.CacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return courses, nil
}

// Search filters the published catalog.
func (s *CourseService) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	start := time.Now()
	courses, total, err := s.repo.Search(ctx, filter)
	s.metrics.ObserveDBQuery("courses_search", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// GetByID returns one course with its lectures.
func (s *CourseService) GetByID(ctx context.Context, id string) (*models.Course, []models.Lecture, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	lectures, err := s.repo.ListLectures(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lectures")
	}
	return course, lectures, nil
}

// Update edits a course owned by the caller and invalidates the catalog cache.
func (s *CourseService) Update(ctx context.Context, courseID, userID string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.CreatorID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course creator can edit it")
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Subtitle != "" {
		course.Subtitle = req.Subtitle
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Category != "" {
		course.Category = req.Category
	}
	if req.Level != "" {
		course.Level = models.CourseLevel(req.Level)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ThumbnailURL != "" {
		course.ThumbnailURL = req.ThumbnailURL
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
			s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
		}
	}
	return course, nil
}

// CreatorCourses lists the caller's authored courses.
func (s *CourseService) CreatorCourses(ctx context.Context, creatorID string) ([]models.Course, error) {
	courses, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}
