package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Confess journal (SQLite).
var Migrations = migrate.NewGroup("confess")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_confess_journal",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS confess_journal (
    seq         INTEGER PRIMARY KEY,
    id          TEXT NOT NULL,
    kind        TEXT NOT NULL,
    payload     TEXT NOT NULL DEFAULT '{}',
    request_key TEXT NOT NULL DEFAULT '',
    at          INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_confess_journal_id ON confess_journal (id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_confess_journal_request_key ON confess_journal (request_key) WHERE request_key != '';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS confess_journal`)
				return err
			},
		},
	)
}
