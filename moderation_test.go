package confess_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/stats"
	"github.com/xraph/confess/types"
)

// reported posts a confession and files a report on it.
func (h *harness) reported() (confessionID, reportID uint64) {
	h.t.Helper()
	author := addr(900)
	h.join(author)
	confessionID = h.post(author, content.CategoryControversial)

	rid, err := h.eng.ReportContent(h.ctx, author,
		moderation.Target{Type: moderation.TargetConfession, ID: confessionID},
		moderation.ReasonHarassment)
	require.NoError(h.t, err)
	return confessionID, rid
}

// voters joins n fresh voters.
func (h *harness) voters(n int) []types.Address {
	h.t.Helper()
	out := make([]types.Address, n)
	for i := range out {
		out[i] = addr(100 + i)
		h.join(out[i])
	}
	return out
}

func TestScenarioEightForTwoAgainstHides(t *testing.T) {
	h := newHarness(t)
	cid, rid := h.reported()
	voters := h.voters(10)

	for i, v := range voters {
		r, err := h.eng.VoteOnReport(h.ctx, v, rid, i < 8)
		require.NoError(t, err)
		if i < 9 {
			assert.False(t, r.Resolved, "vote %d", i+1)
		}
	}

	r, err := h.eng.GetReport(h.ctx, rid)
	require.NoError(t, err)
	assert.True(t, r.Resolved)
	assert.True(t, r.Hidden)
	assert.Equal(t, int64(8), r.VotesFor)
	assert.Equal(t, int64(2), r.VotesAgainst)
	assert.Equal(t, int64(10), r.TotalVoters)
	assert.Equal(t, int64(80), r.ApprovalPercent())

	conf, err := h.eng.GetConfession(h.ctx, cid)
	require.NoError(t, err)
	assert.True(t, conf.IsHidden)

	global, err := h.eng.GetGlobalStats(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), global.TotalReports)
	assert.Equal(t, int64(1), global.ResolvedReports)

	var hidden []*plugin.ContentHidden
	for _, evt := range h.events.all() {
		if e, ok := evt.(*plugin.ContentHidden); ok {
			hidden = append(hidden, e)
		}
	}
	require.Len(t, hidden, 1)
	assert.True(t, hidden[0].ByVote)
	assert.Equal(t, rid, hidden[0].ReportID)
}

func TestScenarioEvenSplitStaysVisible(t *testing.T) {
	h := newHarness(t)
	cid, rid := h.reported()

	for i, v := range h.voters(10) {
		_, err := h.eng.VoteOnReport(h.ctx, v, rid, i%2 == 0)
		require.NoError(t, err)
	}

	r, err := h.eng.GetReport(h.ctx, rid)
	require.NoError(t, err)
	assert.True(t, r.Resolved)
	assert.False(t, r.Hidden)
	assert.Equal(t, int64(50), r.ApprovalPercent())

	conf, err := h.eng.GetConfession(h.ctx, cid)
	require.NoError(t, err)
	assert.False(t, conf.IsHidden)
}

func TestApprovalUsesFloor(t *testing.T) {
	// 2 of 3 is 66.67%, which floors to 66 and misses a 67% bar.
	h := newHarness(t, confess.WithModerationSettings(moderation.Settings{VoteThreshold: 3, ApprovalPercentage: 67}))
	cid, rid := h.reported()

	for i, v := range h.voters(3) {
		_, err := h.eng.VoteOnReport(h.ctx, v, rid, i < 2)
		require.NoError(t, err)
	}

	conf, err := h.eng.GetConfession(h.ctx, cid)
	require.NoError(t, err)
	assert.False(t, conf.IsHidden)
}

func TestResolvedReportRejectsVotes(t *testing.T) {
	h := newHarness(t)
	_, rid := h.reported()
	voters := h.voters(11)

	for _, v := range voters[:10] {
		_, err := h.eng.VoteOnReport(h.ctx, v, rid, true)
		require.NoError(t, err)
	}

	_, err := h.eng.VoteOnReport(h.ctx, voters[10], rid, true)
	assert.ErrorIs(t, err, confess.ErrReportAlreadyResolved)

	var resolved int
	for _, evt := range h.events.all() {
		if _, ok := evt.(*plugin.ReportResolved); ok {
			resolved++
		}
	}
	assert.Equal(t, 1, resolved, "a report resolves exactly once")

	global, err := h.eng.GetGlobalStats(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), global.ResolvedReports)
}

func TestDoubleVoteRejected(t *testing.T) {
	h := newHarness(t)
	_, rid := h.reported()
	voter := h.voters(1)[0]

	_, err := h.eng.VoteOnReport(h.ctx, voter, rid, true)
	require.NoError(t, err)
	_, err = h.eng.VoteOnReport(h.ctx, voter, rid, false)
	assert.ErrorIs(t, err, confess.ErrAlreadyVoted)

	status, err := h.eng.GetUserVoteOnReport(h.ctx, rid, voter)
	require.NoError(t, err)
	assert.Equal(t, moderation.VoteStatus{HasVoted: true, VotedFor: true}, status)

	status, err = h.eng.GetUserVoteOnReport(h.ctx, rid, addr(5))
	require.NoError(t, err)
	assert.False(t, status.HasVoted)

	r, err := h.eng.GetReport(h.ctx, rid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.TotalVoters)
}

func TestVoteRequiresReportAndAccess(t *testing.T) {
	h := newHarness(t)
	_, rid := h.reported()

	_, err := h.eng.VoteOnReport(h.ctx, addr(5), rid, true)
	assert.ErrorIs(t, err, confess.ErrNoActiveAccess)

	voter := h.voters(1)[0]
	_, err = h.eng.VoteOnReport(h.ctx, voter, rid+1, true)
	assert.ErrorIs(t, err, confess.ErrReportNotFound)
}

func TestReportCooldownAndTargets(t *testing.T) {
	h := newHarness(t)
	reporter := addr(1)
	h.join(reporter)
	cid := h.post(reporter, content.CategoryLife)
	commentID, err := h.eng.PostComment(h.ctx, reporter, cid, types.HashContent("rude"), 4)
	require.NoError(t, err)

	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetConfession, ID: cid + 1}, moderation.ReasonSpam)
	assert.ErrorIs(t, err, confess.ErrConfessionNotFound)

	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetComment, ID: commentID}, moderation.ReasonSpam)
	require.NoError(t, err)

	h.clock.Advance(59 * time.Minute)
	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetConfession, ID: cid}, moderation.ReasonOther)
	assert.ErrorIs(t, err, confess.ErrCooldownNotElapsed)

	h.clock.Advance(time.Minute)
	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetConfession, ID: cid}, moderation.ReasonOther)
	require.NoError(t, err)

	conf, err := h.eng.GetConfession(h.ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), conf.ReportCount)
	cm, err := h.eng.GetComment(h.ctx, commentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cm.ReportCount)

	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: 7, ID: cid}, moderation.ReasonOther)
	assert.ErrorIs(t, err, confess.ErrInvalidTargetType)
	_, err = h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetConfession, ID: cid}, moderation.Reason(9))
	assert.ErrorIs(t, err, confess.ErrInvalidReason)
}

func TestVoteHidesComment(t *testing.T) {
	h := newHarness(t, confess.WithModerationSettings(moderation.Settings{VoteThreshold: 2, ApprovalPercentage: 50}))
	author := addr(1)
	h.join(author)
	cid := h.post(author, content.CategoryLife)
	commentID, err := h.eng.PostComment(h.ctx, author, cid, types.HashContent("spam spam"), 9)
	require.NoError(t, err)

	rid, err := h.eng.ReportContent(h.ctx, author, moderation.Target{Type: moderation.TargetComment, ID: commentID}, moderation.ReasonSpam)
	require.NoError(t, err)

	for i, v := range h.voters(2) {
		_, err := h.eng.VoteOnReport(h.ctx, v, rid, i == 0)
		require.NoError(t, err)
	}

	cm, err := h.eng.GetComment(h.ctx, commentID)
	require.NoError(t, err)
	assert.True(t, cm.IsDeleted)

	conf, err := h.eng.GetConfession(h.ctx, cid)
	require.NoError(t, err)
	assert.False(t, conf.IsHidden, "hiding a comment leaves its confession visible")

	hidden, err := h.eng.GetHiddenContentCounts(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Hidden{Comments: 1}, hidden)
}

func TestPendingReports(t *testing.T) {
	h := newHarness(t, confess.WithModerationSettings(moderation.Settings{VoteThreshold: 1, ApprovalPercentage: 100}))
	reporter := addr(1)
	h.join(reporter)
	cid := h.post(reporter, content.CategoryLife)

	target := moderation.Target{Type: moderation.TargetConfession, ID: cid}
	var ids []uint64
	for range 3 {
		rid, err := h.eng.ReportContent(h.ctx, reporter, target, moderation.ReasonSpam)
		require.NoError(t, err)
		ids = append(ids, rid)
		h.clock.Advance(time.Hour)
	}

	// Resolve the middle report.
	_, err := h.eng.VoteOnReport(h.ctx, h.voters(1)[0], ids[1], false)
	require.NoError(t, err)

	pending, err := h.eng.GetPendingReports(h.ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)

	page, err := h.eng.GetPendingReports(h.ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[2], page[0].ID)

	n, err := h.eng.GetPendingReportCount(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSettingsAreSnapshottedPerReport(t *testing.T) {
	h := newHarness(t)
	_, early := h.reported()

	require.NoError(t, h.eng.UpdateModerationSettings(h.ctx, ownerAddr, moderation.Settings{VoteThreshold: 2, ApprovalPercentage: 50}))

	h.clock.Advance(time.Hour)
	reporter := addr(900)
	cid := h.post(reporter, content.CategoryLife)
	late, err := h.eng.ReportContent(h.ctx, reporter, moderation.Target{Type: moderation.TargetConfession, ID: cid}, moderation.ReasonSpam)
	require.NoError(t, err)

	voters := h.voters(2)
	for _, rid := range []uint64{early, late} {
		for _, v := range voters {
			_, err := h.eng.VoteOnReport(h.ctx, v, rid, true)
			require.NoError(t, err)
		}
	}

	r, err := h.eng.GetReport(h.ctx, early)
	require.NoError(t, err)
	assert.False(t, r.Resolved, "filed under the old threshold of 10")
	assert.Equal(t, int64(10), r.VoteThreshold)

	r, err = h.eng.GetReport(h.ctx, late)
	require.NoError(t, err)
	assert.True(t, r.Resolved)
	assert.True(t, r.Hidden)
}
