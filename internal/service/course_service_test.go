package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

type mockCourseRepo struct {
	courses   map[string]*models.Course
	published []models.Course
	listCalls int
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	if course.ID == "" {
		course.ID = "c1"
	}
	cp := *course
	m.courses[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := m.courses[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	cp := *course
	m.courses[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) ListPublished(ctx context.Context) ([]models.Course, error) {
	m.listCalls++
	return m.published, nil
}

func (m *mockCourseRepo) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	var out []models.Course
	for _, course := range m.courses {
		if course.CreatorID == creatorID {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return m.published, len(m.published), nil
}

func (m *mockCourseRepo) ListLectures(ctx context.Context, courseID string) ([]models.Lecture, error) {
	return nil, nil
}

type mockCatalogCache struct {
	store       map[string][]byte
	invalidated []string
}

func (m *mockCatalogCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCatalogCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *mockCatalogCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.store = nil
	return nil
}

func newCourseService(repo *mockCourseRepo, cache *mockCatalogCache) *CourseService {
	return NewCourseService(repo, cache, NewMetricsService(), nil, nil, CourseConfig{CacheTTL: time.Minute})
}

func TestCoursePublishedUsesCache(t *testing.T) {
	repo := &mockCourseRepo{published: []models.Course{{ID: "c1", Title: "Go Basics", Published: true}}}
	cache := &mockCatalogCache{}
	svc := newCourseService(repo, cache)

	first, err := svc.Published(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := svc.Published(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "warm cache must not hit the database")
}

func TestCourseUpdateInvalidatesCache(t *testing.T) {
	repo := &mockCourseRepo{}
	cache := &mockCatalogCache{}
	svc := newCourseService(repo, cache)

	course, err := svc.Create(context.Background(), "instructor-1", models.CreateCourseRequest{
		Title:    "Go Basics",
		Category: "Programming",
	})
	require.NoError(t, err)

	price := 49.0
	published := true
	updated, err := svc.Update(context.Background(), course.ID, "instructor-1", models.UpdateCourseRequest{
		Price:     &price,
		Published: &published,
	})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, 49.0, updated.Price)
	assert.Equal(t, []string{"catalog:*"}, cache.invalidated)
}

func TestCourseUpdateRejectsNonCreator(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo, &mockCatalogCache{})

	course, err := svc.Create(context.Background(), "instructor-1", models.CreateCourseRequest{
		Title:    "Go Basics",
		Category: "Programming",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), course.ID, "intruder", models.UpdateCourseRequest{Title: "Hijacked"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, typed.Code)
}

func TestCourseCreateRequiresTitleAndCategory(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, &mockCatalogCache{})

	_, err := svc.Create(context.Background(), "instructor-1", models.CreateCourseRequest{Title: "Go Basics"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseSearchDefaultsPagination(t *testing.T) {
	repo := &mockCourseRepo{published: []models.Course{{ID: "c1"}, {ID: "c2"}}}
	svc := newCourseService(repo, &mockCatalogCache{})

	_, pagination, err := svc.Search(context.Background(), models.CourseFilter{Page: -3, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 2, pagination.TotalCount)
}
