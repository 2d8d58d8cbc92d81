package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockOpen(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	orig := sqlOpen
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			return nil, errors.New("unexpected driver " + driverName)
		}
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })
	return mock
}

func TestNew_SelectsBackend(t *testing.T) {
	m, err := New(context.Background(), ModeMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)
	assert.IsType(t, &users.MemoryRepository{}, m.Users())
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())

	_, err = New(context.Background(), "mongo", "")
	assert.ErrorContains(t, err, "unknown store mode")
}

func TestMemoryManager_UsersIsStable(t *testing.T) {
	m := NewMemoryRepositoryManager()
	assert.Same(t, m.Users(), m.Users())
}

func TestNewPostgresRepositoryManager_PingsAndVendsRepos(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing()

	m, err := New(context.Background(), ModePostgres, "postgres://x")
	require.NoError(t, err)

	var _ users.Repository = m.Users()
	assert.IsType(t, &users.PostgresRepository{}, m.Users())

	mock.ExpectPing()
	assert.NoError(t, m.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_PingError(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database: refused")
}

func TestRunMigrations_Success(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing()

	m, err := NewPostgresRepositoryManager(context.Background(), "dsn")
	require.NoError(t, err)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, m.RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	mock := withMockOpen(t)
	mock.ExpectPing()

	m, err := NewPostgresRepositoryManager(context.Background(), "dsn")
	require.NoError(t, err)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err = m.RunMigrations(context.Background())
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}
