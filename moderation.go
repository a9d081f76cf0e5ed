package confess

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// ──────────────────────────────────────────────────
// Reports
// ──────────────────────────────────────────────────

// ReportContent files a report against a confession or comment and returns
// the report id. The moderation settings in force now govern the report
// until it resolves.
func (e *Engine) ReportContent(ctx context.Context, reporter types.Address, target moderation.Target, reason moderation.Reason) (uint64, error) {
	res, err := e.Execute(ctx, &ReportContent{Reporter: reporter, Target: target, Reason: reason})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (e *Engine) applyReportContent(o *op, c *ReportContent) (uint64, error) {
	if err := requireAddress("reporter", c.Reporter); err != nil {
		return 0, err
	}
	if !c.Target.Type.Valid() {
		return 0, ValidationError{Field: "target", Message: c.Target.Type.String(), Err: ErrInvalidTargetType}
	}
	if !c.Reason.Valid() {
		return 0, ValidationError{Field: "reason", Message: c.Reason.String(), Err: ErrInvalidReason}
	}
	if err := requireAccess(o, c.Reporter); err != nil {
		return 0, err
	}
	if err := e.limit(o, c.Reporter, ratelimit.ActionReport); err != nil {
		return 0, err
	}
	if err := countReport(o, c.Target); err != nil {
		return 0, err
	}

	p, err := o.tx.GetPlatform(o.ctx)
	if err != nil {
		return 0, err
	}
	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return 0, err
	}

	r := moderation.NewReport(uint64(counters.TotalReports)+1, c.Target, c.Reason, p.Moderation, o.now)
	if err := o.tx.PutReport(o.ctx, r); err != nil {
		return 0, err
	}
	counters.TotalReports++
	if err := o.tx.PutCounters(o.ctx, counters); err != nil {
		return 0, err
	}

	o.emit(&plugin.ReportCreated{Report: *r, Reporter: c.Reporter})
	return r.ID, nil
}

// countReport increments the target's report count, failing when the target
// does not exist.
func countReport(o *op, target moderation.Target) error {
	switch target.Type {
	case moderation.TargetConfession:
		conf, err := o.tx.GetConfession(o.ctx, target.ID)
		if err != nil {
			return err
		}
		conf.ReportCount++
		return o.tx.PutConfession(o.ctx, conf)
	case moderation.TargetComment:
		cm, err := o.tx.GetComment(o.ctx, target.ID)
		if err != nil {
			return err
		}
		cm.ReportCount++
		return o.tx.PutComment(o.ctx, cm)
	}
	return ErrInvalidTargetType
}

// ──────────────────────────────────────────────────
// Votes
// ──────────────────────────────────────────────────

// VoteOnReport casts voter's ballot. supportRemoval votes to hide the
// content. The ballot that brings the report to its vote threshold resolves
// it and, with enough approval, hides the target. It returns the report as
// it stands after the vote.
func (e *Engine) VoteOnReport(ctx context.Context, voter types.Address, reportID uint64, supportRemoval bool) (*moderation.Report, error) {
	res, err := e.Execute(ctx, &VoteOnReport{Voter: voter, ReportID: reportID, SupportRemoval: supportRemoval})
	if err != nil {
		return nil, err
	}
	return res.(*moderation.Report), nil
}

func (e *Engine) applyVoteOnReport(o *op, c *VoteOnReport) (*moderation.Report, error) {
	if err := requireAddress("voter", c.Voter); err != nil {
		return nil, err
	}
	if err := requireAccess(o, c.Voter); err != nil {
		return nil, err
	}

	r, err := o.tx.GetReport(o.ctx, c.ReportID)
	if err != nil {
		return nil, err
	}
	if r.Resolved {
		return nil, fmt.Errorf("%w: report %d", ErrReportAlreadyResolved, r.ID)
	}

	key := moderation.VoteKey{ReportID: r.ID, Voter: c.Voter}
	if _, err := o.tx.GetVote(o.ctx, key); err == nil {
		return nil, fmt.Errorf("%w: report %d", ErrAlreadyVoted, r.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	v := &moderation.Vote{ReportID: r.ID, Voter: c.Voter, SupportRemoval: c.SupportRemoval, Timestamp: o.now}
	if err := o.tx.PutVote(o.ctx, v); err != nil {
		return nil, err
	}

	resolved, hide := r.Tally(c.SupportRemoval, o.now)
	if err := o.tx.PutReport(o.ctx, r); err != nil {
		return nil, err
	}

	o.emit(&plugin.ReportVoted{
		ReportID:       r.ID,
		Voter:          c.Voter,
		SupportRemoval: c.SupportRemoval,
		VotesFor:       r.VotesFor,
		VotesAgainst:   r.VotesAgainst,
		TotalVoters:    r.TotalVoters,
		At:             o.now,
	})

	if !resolved {
		return r, nil
	}

	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return nil, err
	}
	counters.ResolvedReports++
	if err := o.tx.PutCounters(o.ctx, counters); err != nil {
		return nil, err
	}
	o.emit(&plugin.ReportResolved{Report: *r})

	if hide {
		if err := hideTarget(o, r.Target); err != nil {
			return nil, err
		}
		o.emit(&plugin.ContentHidden{Target: r.Target, ByVote: true, ReportID: r.ID, At: o.now})
	}
	return r, nil
}

// hideTarget marks reported content hidden. Hiding is idempotent.
func hideTarget(o *op, target moderation.Target) error {
	switch target.Type {
	case moderation.TargetConfession:
		return hideConfession(o, target.ID)
	case moderation.TargetComment:
		return hideComment(o, target.ID)
	}
	return ErrInvalidTargetType
}

func hideComment(o *op, commentID uint64) error {
	cm, err := o.tx.GetComment(o.ctx, commentID)
	if err != nil {
		return err
	}
	if cm.IsDeleted {
		return nil
	}
	cm.IsDeleted = true
	if err := o.tx.PutComment(o.ctx, cm); err != nil {
		return err
	}

	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return err
	}
	counters.HiddenComments++
	return o.tx.PutCounters(o.ctx, counters)
}

func hideConfession(o *op, confessionID uint64) error {
	conf, err := o.tx.GetConfession(o.ctx, confessionID)
	if err != nil {
		return err
	}
	if conf.IsHidden {
		return nil
	}
	conf.IsHidden = true
	if err := o.tx.PutConfession(o.ctx, conf); err != nil {
		return err
	}

	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return err
	}
	counters.HiddenConfessions++
	return o.tx.PutCounters(o.ctx, counters)
}

// GetReport returns one report.
func (e *Engine) GetReport(ctx context.Context, reportID uint64) (*moderation.Report, error) {
	var r *moderation.Report
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		r, err = tx.GetReport(ctx, reportID)
		return err
	})
	return r, err
}

// GetPendingReports pages through unresolved reports in filing order.
func (e *Engine) GetPendingReports(ctx context.Context, offset, limit int) ([]*moderation.Report, error) {
	var out []*moderation.Report
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListPendingReports(ctx, moderation.ListOpts{Offset: offset, Limit: limit})
		return err
	})
	return out, err
}

// GetUserVoteOnReport reports whether voter voted on a report and how.
func (e *Engine) GetUserVoteOnReport(ctx context.Context, reportID uint64, voter types.Address) (moderation.VoteStatus, error) {
	var status moderation.VoteStatus
	err := e.view(ctx, func(tx store.Tx) error {
		v, err := tx.GetVote(ctx, moderation.VoteKey{ReportID: reportID, Voter: voter})
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		status = moderation.VoteStatus{HasVoted: true, VotedFor: v.SupportRemoval}
		return nil
	})
	return status, err
}
