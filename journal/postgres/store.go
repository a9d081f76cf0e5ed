// Package postgres implements journal.Store on PostgreSQL via Grove ORM.
package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/confess/journal"
)

// compile-time interface check
var _ journal.Store = (*Store)(nil)

// Store implements journal.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL journal backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the journal table using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("confess/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("confess/postgres: migration failed: %w", err)
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

	if _, err := s.pg.NewInsert(toEntryModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("confess/postgres: append entry %d: %w", e.Seq, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, afterSeq uint64, limit int) ([]*journal.Entry, error) {
	var models []entryModel
	q := s.pg.NewSelect(&models).Where("seq > $1", int64(afterSeq))
	if limit > 0 {
		q = q.Limit(limit)
	}
	q = q.OrderExpr("seq ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("confess/postgres: list entries: %w", err)
	}
	return fromEntryModels(models)
}

func (s *Store) LastSeq(ctx context.Context) (uint64, error) {
	var last int64
	err := s.pg.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM confess_journal`).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("confess/postgres: last seq: %w", err)
	}
	return uint64(last), nil
}
