package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/justsurfingit/job-board/internal/database"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)
	return db, mock
}

var applicationColumns = []string{"id", "created_at", "updated_at", "job_id", "applicant_id", "resume_url", "cover_letter", "status"}

func TestApplicationRepositoryCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(`INSERT INTO "applications" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := &models.Application{JobID: "job-1", ApplicantID: "user-1", ResumeURL: "http://x/r.pdf", Status: models.StatusPending}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.NotEmpty(t, app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationUniqueIndexCoversJobAndApplicant(t *testing.T) {
	db, _ := setupMockDB(t)

	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(&models.Application{}))

	idx := stmt.Schema.LookIndex("idx_applications_job_applicant")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)

	var columns []string
	for _, f := range idx.Fields {
		columns = append(columns, f.DBName)
	}
	assert.Equal(t, []string{"job_id", "applicant_id"}, columns)
}

func TestApplicationRepositoryCreateConflictIsDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "applications"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), &models.Application{JobID: "job-1", ApplicantID: "user-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateUniqueViolationIsDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "applications"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_applications_job_applicant"})

	err := repo.Create(context.Background(), &models.Application{JobID: "job-1", ApplicantID: "user-1"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestApplicationRepositoryCreateOtherError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "applications"`)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.Application{JobID: "job-1", ApplicantID: "user-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestApplicationRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "applications" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationRepositoryListByJobNewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(applicationColumns).
		AddRow("a3", now, now, "job-1", "u3", "r3", "", "pending").
		AddRow("a2", now.Add(-time.Minute), now, "job-1", "u2", "r2", "", "reviewed").
		AddRow("a1", now.Add(-2*time.Minute), now, "job-1", "u1", "r1", "", "pending")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "applications" WHERE job_id = $1 ORDER BY created_at DESC`)).
		WithArgs("job-1").
		WillReturnRows(rows)

	apps, err := repo.ListByJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "a3", apps[0].ID)
	assert.Equal(t, models.StatusReviewed, apps[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "applications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "applications" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("a1", now, now, "job-1", "u1", "r1", "", "accepted"))

	app, err := repo.UpdateStatus(context.Background(), "a1", models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "applications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), "missing", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}
