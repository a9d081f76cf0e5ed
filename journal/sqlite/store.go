// Package sqlite implements journal.Store on SQLite via Grove ORM.
package sqlite

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/confess/journal"
)

// compile-time interface check
var _ journal.Store = (*Store)(nil)

// Store implements journal.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite journal backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the journal table using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("confess/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("confess/sqlite: migration failed: %w", err)
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

func (s *Store) Append(ctx context.Context, e *journal.Entry) error {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return err
	}
	if e.Seq != last+1 {
		return journal.ErrSequenceConflict
	}

	if _, err := s.sdb.NewInsert(toEntryModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("confess/sqlite: append entry %d: %w", e.Seq, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, afterSeq uint64, limit int) ([]*journal.Entry, error) {
	var models []entryModel
	q := s.sdb.NewSelect(&models).Where("seq > ?", int64(afterSeq))
	if limit > 0 {
		q = q.Limit(limit)
	}
	q = q.OrderExpr("seq ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("confess/sqlite: list entries: %w", err)
	}
	return fromEntryModels(models)
}

func (s *Store) LastSeq(ctx context.Context) (uint64, error) {
	var last int64
	err := s.sdb.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM confess_journal`).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("confess/sqlite: last seq: %w", err)
	}
	return uint64(last), nil
}
