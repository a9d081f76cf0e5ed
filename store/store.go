// Package store defines the transactional state store behind the engine.
package store

import (
	"context"

	"github.com/xraph/confess/access"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/platform"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/stats"
)

// Tx stages reads and writes over the committed state. Reads observe the
// transaction's own staged writes. Nothing is visible to other readers until
// Commit; Rollback discards every staged write.
type Tx interface {
	access.Store
	content.Store
	reaction.Store
	moderation.Store
	ratelimit.Store
	stats.Store
	platform.Store

	// Request keys make commands idempotent for callers that retry.
	HasRequestKey(ctx context.Context, key string) (bool, error)
	PutRequestKey(ctx context.Context, key string) error

	Commit(ctx context.Context) error
	Rollback() error
}

// Store is the unified storage interface for all Confess state.
type Store interface {
	// Begin opens a transaction. Mutations are serialised by the engine, so
	// at most one writing transaction is open at a time.
	Begin(ctx context.Context) (Tx, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// WithTx runs fn in a transaction and commits only if fn succeeds. On error
// or panic every staged write is discarded; panics are rethrown.
func WithTx(ctx context.Context, s Store, fn func(tx Tx) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // rethrowing
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // the original error is what the caller needs
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}

// View runs fn against a read-only view of the committed state.
func View(ctx context.Context, s Store, fn func(tx Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // nothing was staged

	return fn(tx)
}
