package mongo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
)

func roundTrip(t *testing.T, e *journal.Entry) *journal.Entry {
	t.Helper()

	m, err := toEntryModel(e)
	require.NoError(t, err)
	raw, err := bson.Marshal(m)
	require.NoError(t, err)

	var decoded entryModel
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	out, err := fromEntryModel(&decoded)
	require.NoError(t, err)
	return out
}

func TestEntryModelRoundTrip(t *testing.T) {
	in := &journal.Entry{
		Seq:        42,
		ID:         id.NewOperationID(),
		Kind:       "vote_on_report",
		Payload:    json.RawMessage(`{"report_id":3,"support_removal":true}`),
		RequestKey: "vote-3",
		At:         time.Date(2025, 3, 1, 9, 0, 0, 123_000_000, time.UTC),
	}

	out := roundTrip(t, in)
	assert.Equal(t, in.Seq, out.Seq)
	assert.Equal(t, in.ID.String(), out.ID.String())
	assert.Equal(t, in.Kind, out.Kind)
	assert.JSONEq(t, string(in.Payload), string(out.Payload))
	assert.Equal(t, in.RequestKey, out.RequestKey)
	assert.True(t, in.At.Equal(out.At), "at %s, want %s", out.At, in.At)
	assert.Equal(t, time.UTC, out.At.Location())
}

func TestEntryModelKeepsJournalPrecision(t *testing.T) {
	fine := time.Date(2025, 3, 1, 9, 0, 0, 900_123, time.UTC)

	// BSON datetimes drop everything below a millisecond.
	out := roundTrip(t, &journal.Entry{Seq: 1, ID: id.NewOperationID(), Kind: "react", At: fine})
	assert.False(t, fine.Equal(out.At))
	assert.True(t, fine.Truncate(journal.Precision).Equal(out.At))

	at := fine.Truncate(journal.Precision)
	out = roundTrip(t, &journal.Entry{Seq: 2, ID: id.NewOperationID(), Kind: "react", At: at})
	assert.True(t, at.Equal(out.At))
}

func TestEntryModelOmitsEmptyRequestKey(t *testing.T) {
	m, err := toEntryModel(&journal.Entry{Seq: 1, ID: id.NewOperationID(), Kind: "react"})
	require.NoError(t, err)
	raw, err := bson.Marshal(m)
	require.NoError(t, err)

	_, err = bson.Raw(raw).LookupErr("request_key")
	assert.Error(t, err, "a sparse unique index needs the field absent")
	seq, err := bson.Raw(raw).LookupErr("_id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq.Int64())
}

func TestFromEntryModelRejectsBadID(t *testing.T) {
	_, err := fromEntryModel(&entryModel{Seq: 1, OpID: "not-an-id"})
	assert.Error(t, err)
}
