package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "title", "subtitle", "description", "category", "level", "price", "thumbnail_url", "published", "creator_id", "created_at", "updated_at"}).
		AddRow("c1", "Go Basics", "", "", "Programming", "Beginner", 49.0, "", true, "i1", now, now)
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Title: "Go Basics", Category: "Programming", CreatorID: "i1"}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListPublished(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE published = TRUE ORDER BY created_at DESC")).
		WillReturnRows(courseRows())

	courses, err := repo.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySearchWithFilters(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE published = TRUE AND (LOWER(title) LIKE $1 OR LOWER(subtitle) LIKE $1 OR LOWER(category) LIKE $1) AND category IN ($2, $3) ORDER BY price ASC LIMIT 10 OFFSET 0")).
		WithArgs("%go%", "Programming", "DevOps").
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE published = TRUE")).
		WithArgs("%go%", "Programming", "DevOps").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.Search(context.Background(), models.CourseFilter{
		Query:       "Go",
		Categories:  []string{"Programming", "DevOps"},
		SortByPrice: "low",
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListLectures(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, title, video_url, preview, position, created_at FROM lectures WHERE course_id = $1 ORDER BY position ASC")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "video_url", "preview", "position", "created_at"}).
			AddRow("l1", "c1", "Intro", "", true, 1, now).
			AddRow("l2", "c1", "Setup", "", false, 2, now))

	lectures, err := repo.ListLectures(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, lectures, 2)
	assert.Equal(t, "Intro", lectures[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
