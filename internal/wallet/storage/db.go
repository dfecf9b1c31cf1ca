package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RunMigrations applies the embedded migrations for driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var (
		dir     string
		dialect goose.Dialect
	)
	switch driver {
	case DriverSQLite:
		dir, dialect = "migrations/sqlite", goose.DialectSQLite3
	case DriverPostgres:
		dir, dialect = "migrations/postgres", goose.DialectPostgres
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Open connects to the database named by driver and dsn, applies migrations
// and returns a ready store. The caller closes the returned *sql.DB.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, *sql.DB, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if driver == DriverSQLite {
		// a single writer keeps SQLite from returning SQLITE_BUSY inside Update
		db.SetMaxOpenConns(1)
	}

	if driver == DriverPostgres {
		return NewPostgresStore(db), db, nil
	}
	return NewSQLiteStore(db), db, nil
}
