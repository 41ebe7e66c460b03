package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the lendbook blob table (PostgreSQL).
var Migrations = migrate.NewGroup("lendbook")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_lendbook_blobs",
			Version: "20250301000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS lendbook_blobs (
    blob_key   TEXT PRIMARY KEY,
    blob_value TEXT NOT NULL DEFAULT '[]',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS lendbook_blobs`)
				return err
			},
		},
	)
}
