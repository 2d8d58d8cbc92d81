// Package storage is the CLI's durable state: a local SQLite database with
// the persisted session in its metadata table.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens (creating if needed) the SQLite file at dsn and
// migrates it.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer keeps SQLite from returning SQLITE_BUSY and makes
	// ":memory:" behave as a single database
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}
	return db, nil
}
