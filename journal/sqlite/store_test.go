package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
	"github.com/xraph/confess/journal/sqlite"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func entry(seq uint64, key string) *journal.Entry {
	return &journal.Entry{
		Seq:        seq,
		ID:         id.NewOperationID(),
		Kind:       "react",
		Payload:    json.RawMessage(`{"type":"fire"}`),
		RequestKey: key,
		At:         base.Add(time.Duration(seq)*time.Second + 123*time.Millisecond),
	}
}

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	sdb := sqlitedriver.New()
	require.NoError(t, sdb.Open(ctx, "file:"+path))
	db, err := grove.Open(sdb)
	require.NoError(t, err)

	s := sqlite.New(db)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestAppendListAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s := openStore(t, path)
	require.NoError(t, s.Ping(ctx))

	last, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	assert.ErrorIs(t, s.Append(ctx, entry(2, "")), journal.ErrSequenceConflict)
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, s.Append(ctx, entry(i, "")))
	}
	assert.ErrorIs(t, s.Append(ctx, entry(5, "")), journal.ErrSequenceConflict)
	assert.ErrorIs(t, s.Append(ctx, entry(7, "")), journal.ErrSequenceConflict)
	require.NoError(t, s.Close())

	// Migrating an existing journal is a no-op.
	s = openStore(t, path)
	defer s.Close()

	last, err = s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), last)

	page, err := s.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, []uint64{2, 3}, []uint64{page[0].Seq, page[1].Seq})
	assert.Equal(t, "react", page[0].Kind)
	assert.JSONEq(t, `{"type":"fire"}`, string(page[0].Payload))
	assert.True(t, entry(2, "").At.Equal(page[0].At), "at %s", page[0].At)

	rest, err := s.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	none, err := s.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReplayKeepsRequestKeysAndTimes(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "journal.db"))
	defer s.Close()

	want := []*journal.Entry{entry(1, "k-1"), entry(2, ""), entry(3, "k-3")}
	for _, e := range want {
		require.NoError(t, s.Append(ctx, e))
	}

	var got []*journal.Entry
	last, err := journal.Replay(ctx, s, func(e *journal.Entry) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].ID.String(), got[i].ID.String())
		assert.Equal(t, want[i].RequestKey, got[i].RequestKey)
		assert.True(t, want[i].At.Equal(got[i].At))
	}
}
