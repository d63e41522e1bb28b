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

func newPasswordResetRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPasswordResetRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPasswordResetRepoMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	mock.ExpectExec("INSERT INTO password_resets").
		WillReturnResult(sqlmock.NewResult(1, 1))

	reset := &models.PasswordReset{
		UserID:    "u1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), reset))
	assert.NotEmpty(t, reset.ID)
	assert.False(t, reset.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryFindValid(t *testing.T) {
	db, mock, cleanup := newPasswordResetRepoMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token, expires_at, used, created_at FROM password_resets WHERE token = $1 AND used = FALSE AND expires_at > $2 LIMIT 1")).
		WithArgs("tok", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "used", "created_at"}).
			AddRow("r1", "u1", "tok", now.Add(time.Hour), false, now))

	reset, err := repo.FindValid(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", reset.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryConsume(t *testing.T) {
	db, mock, cleanup := newPasswordResetRepoMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE password_resets SET used = TRUE WHERE token = $1 AND used = FALSE AND expires_at > $2 RETURNING user_id")).
		WithArgs("tok", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))

	userID, err := repo.Consume(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	mock.ExpectQuery("UPDATE password_resets SET used = TRUE").
		WithArgs("tok", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Consume(context.Background(), "tok")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newPasswordResetRepoMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_resets WHERE id = $1")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "r1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
