// Package sqlite stores lendbook blobs in a SQLite table through Grove.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate" // registers the SQLite migration executor
	"github.com/xraph/grove/migrate"

	"github.com/xraph/lendbook"
	lendstore "github.com/xraph/lendbook/store"
)

// compile-time interface check
var _ lendstore.Store = (*Store)(nil)

type blobModel struct {
	grove.BaseModel `grove:"table:lendbook_blobs"`

	Key       string `grove:"blob_key,pk"`
	Value     string `grove:"blob_value"`
	UpdatedAt string `grove:"updated_at"`
}

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Open opens the SQLite database at dsn and wraps it in a Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	drv := sqlitedriver.New()
	if err := drv.Open(ctx, dsn); err != nil {
		return nil, fmt.Errorf("lendbook/sqlite: open: %w", err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		return nil, fmt.Errorf("lendbook/sqlite: grove: %w", err)
	}
	return New(db), nil
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the blob table using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("lendbook/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("lendbook/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.sdb.QueryRow(ctx,
		`SELECT blob_value FROM lendbook_blobs WHERE blob_key = ?`, key).
		Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return nil, lendbook.ErrKeyNotFound
		}
		return nil, fmt.Errorf("lendbook/sqlite: get %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	m := &blobModel{
		Key:       key,
		Value:     string(value),
		UpdatedAt: now().Format(time.RFC3339Nano),
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(blob_key) DO UPDATE").
		Set("blob_value = EXCLUDED.blob_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lendbook/sqlite: set %q: %w", key, err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
