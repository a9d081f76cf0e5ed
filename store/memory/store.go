// Package memory implements store.Store with in-process maps.
//
// Writes are staged in a transaction overlay that reads through to the
// committed state; Commit applies the overlay under a short write lock, so
// readers only ever observe whole transactions.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	confess "github.com/xraph/confess"
	"github.com/xraph/confess/access"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/platform"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/stats"
	confessstore "github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// compile-time interface check
var _ confessstore.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	closed bool

	// Access storage, plus every member's expiration sorted ascending so the
	// active count is a binary search.
	members  map[types.Address]access.Member
	expiries []int64

	// Content storage and its secondary indexes, in insertion order
	confessions          map[uint64]content.Confession
	comments             map[uint64]content.Comment
	byCategory           [content.NumCategories][]uint64
	commentsByConfession map[uint64][]uint64

	// Reaction storage
	reactions map[reaction.Key]reaction.Reaction
	counts    map[reaction.Subject]reaction.Counts

	// Moderation storage; pending holds unresolved report ids ascending
	reports map[uint64]moderation.Report
	pending []uint64
	votes   map[moderation.VoteKey]moderation.Vote

	limits      map[ratelimit.Key]ratelimit.State
	counters    stats.Counters
	platform    *platform.State
	requestKeys map[string]struct{}
}

func New() *Store {
	return &Store{
		members:              make(map[types.Address]access.Member),
		confessions:          make(map[uint64]content.Confession),
		comments:             make(map[uint64]content.Comment),
		commentsByConfession: make(map[uint64][]uint64),
		reactions:            make(map[reaction.Key]reaction.Reaction),
		counts:               make(map[reaction.Subject]reaction.Counts),
		reports:              make(map[uint64]moderation.Report),
		votes:                make(map[moderation.VoteKey]moderation.Vote),
		limits:               make(map[ratelimit.Key]ratelimit.State),
		requestKeys:          make(map[string]struct{}),
	}
}

// Begin opens a transaction over the committed state.
func (s *Store) Begin(_ context.Context) (confessstore.Tx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, confess.ErrStoreClosed
	}
	return newTx(s), nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return confess.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ==================== Committed state ====================

// activeAt counts committed members whose expiration lies after now.
// Caller holds s.mu.
func (s *Store) activeAt(now time.Time) int64 {
	idx, _ := slices.BinarySearch(s.expiries, now.UnixNano()+1)
	return int64(len(s.expiries) - idx)
}

// Caller holds s.mu for writing.
func (s *Store) reindexExpiry(prev *access.Member, next access.Member) {
	if prev != nil {
		old := prev.ExpiresAt.UnixNano()
		if i, found := slices.BinarySearch(s.expiries, old); found {
			s.expiries = slices.Delete(s.expiries, i, i+1)
		}
	}
	v := next.ExpiresAt.UnixNano()
	i, _ := slices.BinarySearch(s.expiries, v)
	s.expiries = slices.Insert(s.expiries, i, v)
}

// apply merges a committed transaction. Caller holds s.mu for writing.
func (s *Store) apply(t *tx) {
	for addr, m := range t.members {
		if prev, ok := s.members[addr]; ok {
			s.reindexExpiry(&prev, m)
		} else {
			s.reindexExpiry(nil, m)
		}
		s.members[addr] = m
	}

	for _, cid := range sortedKeys(t.confessions) {
		c := t.confessions[cid]
		if _, ok := s.confessions[cid]; !ok {
			s.byCategory[c.Category] = append(s.byCategory[c.Category], cid)
		}
		s.confessions[cid] = c
	}

	for _, cid := range sortedKeys(t.comments) {
		c := t.comments[cid]
		if _, ok := s.comments[cid]; !ok {
			s.commentsByConfession[c.ConfessionID] = append(s.commentsByConfession[c.ConfessionID], cid)
		}
		s.comments[cid] = c
	}

	for key, r := range t.reactions {
		if r == nil {
			delete(s.reactions, key)
			continue
		}
		s.reactions[key] = *r
	}
	for subject, c := range t.counts {
		s.counts[subject] = c
	}

	for _, rid := range sortedKeys(t.reports) {
		r := t.reports[rid]
		_, existed := s.reports[rid]
		s.reports[rid] = r

		i, found := slices.BinarySearch(s.pending, rid)
		switch {
		case r.Resolved && found:
			s.pending = slices.Delete(s.pending, i, i+1)
		case !r.Resolved && !found && !existed:
			s.pending = slices.Insert(s.pending, i, rid)
		}
	}
	for key, v := range t.votes {
		s.votes[key] = v
	}

	for key, l := range t.limits {
		s.limits[key] = l
	}
	if t.counters != nil {
		s.counters = *t.counters
	}
	if t.platform != nil {
		p := *t.platform
		s.platform = &p
	}
	for key := range t.requestKeys {
		s.requestKeys[key] = struct{}{}
	}
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
