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

func newCertificateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func certificateRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "course_id", "completion_date", "certificate_number", "status", "created_at", "updated_at"}).
		AddRow("cert1", "u1", "c1", now, "SKILL-2026-00042", "generated", now, now)
}

func TestCertificateRepositoryFindByUserAndCourse(t *testing.T) {
	db, mock, cleanup := newCertificateRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course_id, completion_date, certificate_number, status, created_at, updated_at FROM certificates WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("u1", "c1").
		WillReturnRows(certificateRows())

	cert, err := repo.FindByUserAndCourse(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "SKILL-2026-00042", cert.CertificateNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryNumberExists(t *testing.T) {
	db, mock, cleanup := newCertificateRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE certificate_number = $1)")).
		WithArgs("SKILL-2026-00042").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.NumberExists(context.Background(), "SKILL-2026-00042")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCertificateRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectExec("INSERT INTO certificates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	cert := &models.Certificate{UserID: "u1", CourseID: "c1", CertificateNumber: "SKILL-2026-00042"}
	require.NoError(t, repo.Create(context.Background(), cert))
	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, models.CertificateGenerated, cert.Status)
	assert.False(t, cert.CompletionDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
