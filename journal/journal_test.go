package journal_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
	"github.com/xraph/confess/journal/memory"
)

func entry(seq uint64) *journal.Entry {
	return &journal.Entry{
		Seq:     seq,
		ID:      id.NewOperationID(),
		Kind:    "post_confession",
		Payload: json.RawMessage(`{"n":1}`),
		At:      time.Date(2025, 1, 1, 0, 0, int(seq), 0, time.UTC),
	}
}

func TestMemoryAppendRequiresNextSeq(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Append(ctx, entry(1)))
	assert.ErrorIs(t, s.Append(ctx, entry(1)), journal.ErrSequenceConflict)
	assert.ErrorIs(t, s.Append(ctx, entry(3)), journal.ErrSequenceConflict)
	require.NoError(t, s.Append(ctx, entry(2)))

	last, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), last)
}

func TestMemoryListPages(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, s.Append(ctx, entry(i)))
	}

	page, err := s.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(2), page[0].Seq)
	assert.Equal(t, uint64(3), page[1].Seq)

	rest, err := s.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	none, err := s.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryFailAppendAndClose(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	boom := errors.New("disk full")

	s.FailAppend = boom
	assert.ErrorIs(t, s.Append(ctx, entry(1)), boom)
	s.FailAppend = nil
	require.NoError(t, s.Append(ctx, entry(1)))

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Append(ctx, entry(2)), journal.ErrClosed)
	assert.ErrorIs(t, s.Ping(ctx), journal.ErrClosed)

	reopened := s.Reopen()
	require.NoError(t, reopened.Ping(ctx))
	last, err := reopened.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), last)
}

func TestReplayVisitsInOrderAcrossBatches(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	n := uint64(journal.DefaultBatchSize + 7)
	for i := uint64(1); i <= n; i++ {
		require.NoError(t, s.Append(ctx, entry(i)))
	}

	var seen []uint64
	last, err := journal.Replay(ctx, s, func(e *journal.Entry) error {
		seen = append(seen, e.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, n, last)
	require.Len(t, seen, int(n))
	for i, seq := range seen {
		assert.Equal(t, uint64(i+1), seq)
	}
}

func TestReplayStopsOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, s.Append(ctx, entry(i)))
	}

	boom := errors.New("bad entry")
	last, err := journal.Replay(ctx, s, func(e *journal.Entry) error {
		if e.Seq == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), last)
}

func TestReplayEmptyJournal(t *testing.T) {
	last, err := journal.Replay(context.Background(), memory.New(), func(*journal.Entry) error {
		t.Fatal("unexpected entry")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, last)
}
