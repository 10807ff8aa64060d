package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobColumns = []string{"id", "created_at", "updated_at", "title", "company", "description", "email", "salary", "is_active", "posted_by"}

func TestJobRepositoryListActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewJobRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "jobs" WHERE is_active = $1 AND title ILIKE $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "jobs" WHERE is_active = $1 AND title ILIKE $2 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(jobColumns).
			AddRow("j1", now, now, "Backend Engineer", "Acme", "Build services for the platform", "", nil, true, "e1"))

	jobs, total, err := repo.ListActive(context.Background(), JobFilter{Title: "engineer", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepositoryFindJobs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewJobRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "jobs" WHERE id IN ($1,$2)`)).
		WithArgs("j1", "j2").
		WillReturnRows(sqlmock.NewRows(jobColumns).
			AddRow("j1", now, now, "Backend Engineer", "Acme", "Build services for the platform", "", nil, false, "e1"))

	found, err := repo.FindJobs(context.Background(), []string{"j1", "j2"})
	require.NoError(t, err)
	require.Contains(t, found, "j1")
	assert.NotContains(t, found, "j2")
	assert.False(t, found["j1"].IsActive)
	assert.Equal(t, "e1", found["j1"].PostedBy)
}

func TestJobRepositoryFindJobsEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewJobRepository(db)

	found, err := repo.FindJobs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepositorySetActiveMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "jobs" SET "is_active"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SetActive(context.Background(), "missing", false), ErrNotFound)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_go%`, containsPattern(" 100%_go "))
}

func TestUserRepositoryFindUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","name","email" FROM "users" WHERE id IN ($1)`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("u1", "Ada", "ada@example.com"))

	found, err := repo.FindUsers(context.Background(), []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", found["u1"].Name)
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}))

	_, err := repo.FindByEmail(context.Background(), "  Ada@Example.com ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryGetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}).
			AddRow("u1", "Ada", "ada@example.com", "hash", "employer"))

	user, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "employer", string(user.Role))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}))

	_, err = repo.GetByID(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
