package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_Success(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err = RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestOpen(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	var gotDriver, gotDSN string
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return db, nil
	}

	got, err := Open(context.Background(), "postgres://localhost/fz")
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, "postgres://localhost/fz", gotDSN)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PingFails(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }

	_, err = Open(context.Background(), "dsn")
	require.ErrorContains(t, err, "ping: refused")
}

func TestOpen_OpenFails(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad driver") }

	_, err := Open(context.Background(), "dsn")
	require.ErrorContains(t, err, "open: bad driver")
}

func TestManager_Factories(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var m Manager
	assert.NotNil(t, m.Accounts(db))
	assert.NotNil(t, m.Documents(db))
}
