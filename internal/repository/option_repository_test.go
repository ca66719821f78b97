package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/doc-vault-api/internal/models"
)

func newOptionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOptionRepositoryListLabelsInsertionOrder(t *testing.T) {
	db, mock, cleanup := newOptionRepoMock(t)
	defer cleanup()

	repo := NewOptionRepository(db)
	rows := sqlmock.NewRows([]string{"label"}).
		AddRow("Driver License").
		AddRow("Passport").
		AddRow("Invoice").
		AddRow("Contract")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT label FROM classification_options WHERE owner_id = $1 ORDER BY seq ASC")).
		WithArgs("1").
		WillReturnRows(rows)

	labels, err := repo.ListLabels(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, models.DefaultClassificationOptions, labels)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionRepositorySeedDefaults(t *testing.T) {
	db, mock, cleanup := newOptionRepoMock(t)
	defer cleanup()

	repo := NewOptionRepository(db)
	for range models.DefaultClassificationOptions {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO classification_options")).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	inserted, err := repo.SeedDefaults(context.Background(), "1", models.DefaultClassificationOptions)
	require.NoError(t, err)
	require.Equal(t, int64(len(models.DefaultClassificationOptions)), inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionRepositorySeedDefaultsIdempotent(t *testing.T) {
	db, mock, cleanup := newOptionRepoMock(t)
	defer cleanup()

	repo := NewOptionRepository(db)
	// Second seeding hits ON CONFLICT DO NOTHING: zero rows affected.
	for range models.DefaultClassificationOptions {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO classification_options")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	inserted, err := repo.SeedDefaults(context.Background(), "1", models.DefaultClassificationOptions)
	require.NoError(t, err)
	require.Zero(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionRepositoryCount(t *testing.T) {
	db, mock, cleanup := newOptionRepoMock(t)
	defer cleanup()

	repo := NewOptionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classification_options WHERE owner_id = $1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
