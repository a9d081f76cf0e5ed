package sqlite

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
)

func TestEntryModelKeepsNanoseconds(t *testing.T) {
	in := &journal.Entry{
		Seq:     3,
		ID:      id.NewOperationID(),
		Kind:    "post_comment",
		Payload: json.RawMessage(`{"confession_id":1}`),
		At:      time.Date(2025, 3, 1, 9, 0, 0, 900_123, time.FixedZone("EST", -5*3600)),
	}

	m := toEntryModel(in)
	assert.Equal(t, in.At.UnixNano(), m.At)

	out, err := fromEntryModel(m)
	require.NoError(t, err)
	assert.True(t, in.At.Equal(out.At))
	assert.Equal(t, time.UTC, out.At.Location())
	assert.JSONEq(t, string(in.Payload), string(out.Payload))
	assert.Empty(t, out.RequestKey)
}
