// Package journal defines the ordered operation log behind the engine.
//
// Every committed command is appended once, with a gap-free sequence number
// and the execution time it ran at. Replaying the journal in sequence order
// rebuilds the engine's state deterministically.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/confess/id"
)

// Sentinel errors returned by journal stores.
var (
	ErrSequenceConflict = errors.New("journal: entry sequence does not follow the last entry")
	ErrClosed           = errors.New("journal: closed")
)

// DefaultBatchSize is the page size Replay reads with.
const DefaultBatchSize = 500

// Precision is the finest execution time every Store keeps. BSON datetimes
// hold milliseconds, so entries carry At truncated to it.
const Precision = time.Millisecond

// Entry is one committed command.
type Entry struct {
	Seq        uint64          `json:"seq"`
	ID         id.OperationID  `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	RequestKey string          `json:"request_key,omitempty"`
	At         time.Time       `json:"at"`
}

// Store persists journal entries.
type Store interface {
	// Append stores e. e.Seq must be exactly one past the last stored entry,
	// otherwise ErrSequenceConflict is returned and nothing is written.
	Append(ctx context.Context, e *Entry) error
	// List returns up to limit entries with Seq > afterSeq in ascending order.
	List(ctx context.Context, afterSeq uint64, limit int) ([]*Entry, error)
	// LastSeq returns the highest stored sequence, 0 for an empty journal.
	LastSeq(ctx context.Context) (uint64, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Replay calls fn for every entry in sequence order and returns the last
// sequence it visited. It stops at the first error fn returns.
func Replay(ctx context.Context, s Store, fn func(*Entry) error) (uint64, error) {
	var last uint64
	for {
		batch, err := s.List(ctx, last, DefaultBatchSize)
		if err != nil {
			return last, fmt.Errorf("journal: list after %d: %w", last, err)
		}
		for _, e := range batch {
			if e.Seq != last+1 {
				return last, fmt.Errorf("journal: gap after %d, found %d: %w", last, e.Seq, ErrSequenceConflict)
			}
			if err := fn(e); err != nil {
				return last, err
			}
			last = e.Seq
		}
		if len(batch) < DefaultBatchSize {
			return last, nil
		}
		if err := ctx.Err(); err != nil {
			return last, err
		}
	}
}
