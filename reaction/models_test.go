package reaction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/reaction"
)

func TestTypeNames(t *testing.T) {
	for i, name := range []string{"like", "love", "thinking", "fire", "sad"} {
		typ := reaction.Type(i)
		assert.True(t, typ.Valid())
		assert.Equal(t, name, typ.String())

		parsed, err := reaction.ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	assert.False(t, reaction.Type(reaction.NumTypes).Valid())
	_, err := reaction.ParseType("angry")
	assert.Error(t, err)
}

func TestSubjectJSON(t *testing.T) {
	data, err := json.Marshal(reaction.Comment(42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"comment","id":42}`, string(data))

	var s reaction.Subject
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"confession","id":7}`), &s))
	assert.Equal(t, reaction.Confession(7), s)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"poll","id":7}`), &s))
}

func TestCountsTotal(t *testing.T) {
	var c reaction.Counts
	assert.Zero(t, c.Total())

	c[reaction.TypeLike] = 3
	c[reaction.TypeSad] = 2
	assert.Equal(t, int64(5), c.Total())
}

func TestSubjectString(t *testing.T) {
	assert.Equal(t, "confession/3", reaction.Confession(3).String())
	assert.Equal(t, "comment/9", reaction.Comment(9).String())
}
