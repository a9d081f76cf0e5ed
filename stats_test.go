package confess_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/stats"
	"github.com/xraph/confess/types"
)

func TestGlobalStats(t *testing.T) {
	h := newHarness(t)
	a, b := addr(1), addr(2)
	h.join(a)
	h.clock.Advance(24 * time.Hour)
	h.join(b)

	cid := h.post(a, content.CategoryLove)
	_, err := h.eng.PostComment(h.ctx, b, cid, types.HashContent("nice"), 4)
	require.NoError(t, err)
	require.NoError(t, h.eng.React(h.ctx, b, reaction.Confession(cid), reaction.TypeLove))
	_, err = h.eng.ReportContent(h.ctx, b, moderation.Target{Type: moderation.TargetConfession, ID: cid}, moderation.ReasonOther)
	require.NoError(t, err)

	got, err := h.eng.GetGlobalStats(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Global{
		TotalConfessions: 1,
		TotalComments:    1,
		TotalReactions:   1,
		TotalMembers:     2,
		ActiveMembers:    2,
		TotalReports:     1,
		ResolvedReports:  0,
	}, got)

	// a expires a day before b; no write is needed for the count to drop.
	h.clock.Advance(period - 24*time.Hour)
	got, err = h.eng.GetGlobalStats(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ActiveMembers)
	assert.Equal(t, int64(2), got.TotalMembers)

	h.clock.Advance(24 * time.Hour)
	got, err = h.eng.GetGlobalStats(h.ctx)
	require.NoError(t, err)
	assert.Zero(t, got.ActiveMembers)
}
