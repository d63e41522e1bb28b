package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

func newPurchaseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPurchaseRepositoryHasCompleted(t *testing.T) {
	db, mock, cleanup := newPurchaseRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND course_id = $2 AND status = 'completed')")).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	owned, err := repo.HasCompleted(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, owned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryMarkCompleted(t *testing.T) {
	db, mock, cleanup := newPurchaseRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE purchases SET status = 'completed', payment_ref = $2, updated_at = $3 WHERE id = $1 AND status = 'pending' RETURNING")).
		WithArgs("p1", "pay-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "amount", "status", "payment_ref", "created_at", "updated_at"}).
			AddRow("p1", "u1", "c1", 49.0, "completed", "pay-1", now, now))

	purchase, err := repo.MarkCompleted(context.Background(), "p1", "pay-1")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseCompleted, purchase.Status)

	mock.ExpectQuery("UPDATE purchases SET status = 'completed'").
		WithArgs("p1", "pay-2", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.MarkCompleted(context.Background(), "p1", "pay-2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryListCompletedByUser(t *testing.T) {
	db, mock, cleanup := newPurchaseRepoMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT p.id, p.user_id, p.course_id, p.amount, p.status, p.payment_ref, p.created_at, p.updated_at, c.title AS course_title").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "amount", "status", "payment_ref", "created_at", "updated_at", "course_title", "category", "thumbnail_url", "price"}).
			AddRow("p1", "u1", "c1", 49.0, "completed", "pay-1", now, now, "Go Basics", "Programming", "", 49.0))

	purchases, err := repo.ListCompletedByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Go Basics", purchases[0].CourseTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
