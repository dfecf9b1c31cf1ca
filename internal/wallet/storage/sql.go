package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chaincode/internal/dbx"
)

type dialect struct {
	get       string
	getLocked string
	upsert    string
	remove    string
}

var sqliteDialect = dialect{
	get:       `SELECT data FROM collections WHERE name = ?`,
	getLocked: `SELECT data FROM collections WHERE name = ?`,
	upsert: `INSERT INTO collections (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
	remove: `DELETE FROM collections WHERE name = ?`,
}

var postgresDialect = dialect{
	get:       `SELECT data FROM collections WHERE name = $1`,
	getLocked: `SELECT data FROM collections WHERE name = $1 FOR UPDATE`,
	upsert: `INSERT INTO collections (name, data) VALUES ($1, $2)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
	remove: `DELETE FROM collections WHERE name = $1`,
}

// SQLStore keeps each collection as one row of the collections table.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLiteStore binds a store to a SQLite database.
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, d: sqliteDialect}
}

// NewPostgresStore binds a store to a PostgreSQL database.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, d: postgresDialect}
}

func (s *SQLStore) load(ctx context.Context, q dbx.DBTX, query, name string) ([]byte, error) {
	var data []byte
	err := q.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection[%s]: %w", name, err)
	}
	return data, nil
}

func (s *SQLStore) save(ctx context.Context, q dbx.DBTX, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	if _, err := q.ExecContext(ctx, s.d.upsert, name, data); err != nil {
		return fmt.Errorf("failed to save collection[%s]: %w", name, err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, name string) ([]byte, error) {
	return s.load(ctx, s.db, s.d.get, name)
}

func (s *SQLStore) Save(ctx context.Context, name string, data []byte) error {
	return s.save(ctx, s.db, name, data)
}

func (s *SQLStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, s.d.remove, name); err != nil {
		return fmt.Errorf("failed to delete collection[%s]: %w", name, err)
	}
	return nil
}

// Update reads and rewrites the collection inside one transaction. On
// PostgreSQL the row is locked with FOR UPDATE.
func (s *SQLStore) Update(ctx context.Context, name string, fn func([]byte) ([]byte, error)) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.load(ctx, tx, s.d.getLocked, name)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return s.save(ctx, tx, name, next)
	})
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	return err
}
