// Package memory implements journal.Store in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/confess/journal"
)

// compile-time interface check
var _ journal.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	entries []journal.Entry
	closed  bool

	// FailAppend, when set, is returned by Append instead of storing.
	// Tests use it to exercise the engine's compensation path.
	FailAppend error
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return journal.ErrClosed
	}
	if s.FailAppend != nil {
		return s.FailAppend
	}
	if e.Seq != uint64(len(s.entries))+1 {
		return journal.ErrSequenceConflict
	}

	cp := *e
	cp.Payload = append([]byte(nil), e.Payload...)
	s.entries = append(s.entries, cp)
	return nil
}

func (s *Store) List(_ context.Context, afterSeq uint64, limit int) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, journal.ErrClosed
	}
	if afterSeq >= uint64(len(s.entries)) {
		return []*journal.Entry{}, nil
	}

	rest := s.entries[afterSeq:]
	if limit > 0 && limit < len(rest) {
		rest = rest[:limit]
	}
	out := make([]*journal.Entry, len(rest))
	for i := range rest {
		e := rest[i]
		out[i] = &e
	}
	return out, nil
}

func (s *Store) LastSeq(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.entries)), nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return journal.ErrClosed
	}
	return nil
}

// Close marks the journal closed. Entries stay readable through a new
// Reopen call, which lets tests simulate a process restart.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Reopen returns a fresh journal holding the same entries.
func (s *Store) Reopen() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Store{entries: append([]journal.Entry(nil), s.entries...)}
}
