// Package pebble implements journal.Store on an embedded Pebble database.
//
// Entries are stored as JSON under zero-padded keys ("journal:%020d") so
// Pebble's byte ordering is the journal's sequence order.
package pebble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/xraph/confess/journal"
)

// compile-time interface check
var _ journal.Store = (*Store)(nil)

const keyPrefix = "journal:"

// Store is a Pebble-backed journal.
type Store struct {
	mu  sync.Mutex
	db  *pebble.DB
	own bool
}

// Open opens (or creates) a Pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("confess/pebble: open %s: %w", path, err)
	}
	return &Store{db: db, own: true}, nil
}

// New wraps an already open database. Close does not close db.
func New(db *pebble.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying Pebble database.
func (s *Store) DB() *pebble.DB { return s.db }

func entryKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}

func seqFromKey(k []byte) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(string(k), keyPrefix), 10, 64)
}

// prefixEnd is the first key after every journal key.
func prefixEnd() []byte {
	end := []byte(keyPrefix)
	end[len(end)-1]++
	return end
}

func (s *Store) Append(ctx context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return journal.ErrClosed
	}

	last, err := s.lastSeq()
	if err != nil {
		return err
	}
	if e.Seq != last+1 {
		return journal.ErrSequenceConflict
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("confess/pebble: encode entry %d: %w", e.Seq, err)
	}
	if err := s.db.Set(entryKey(e.Seq), data, pebble.Sync); err != nil {
		return fmt.Errorf("confess/pebble: append entry %d: %w", e.Seq, err)
	}
	return nil
}

func (s *Store) List(_ context.Context, afterSeq uint64, limit int) ([]*journal.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, journal.ErrClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: entryKey(afterSeq + 1),
		UpperBound: prefixEnd(),
	})
	if err != nil {
		return nil, fmt.Errorf("confess/pebble: iterate: %w", err)
	}
	defer iter.Close()

	out := []*journal.Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		var e journal.Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("confess/pebble: decode %s: %w", iter.Key(), err)
		}
		out = append(out, &e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, iter.Error()
}

func (s *Store) LastSeq(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, journal.ErrClosed
	}
	return s.lastSeq()
}

// Caller holds s.mu.
func (s *Store) lastSeq() (uint64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixEnd(),
	})
	if err != nil {
		return 0, fmt.Errorf("confess/pebble: iterate: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	return seqFromKey(iter.Key())
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return journal.ErrClosed
	}
	_, closer, err := s.db.Get(entryKey(0))
	if err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("confess/pebble: ping: %w", err)
	}
	if closer != nil {
		_ = closer.Close() //nolint:errcheck // read-only probe
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	if !s.own {
		return nil
	}
	return db.Close()
}
