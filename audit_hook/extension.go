// Package audithook bridges Confess lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
//
// Confession and comment events carry no author, so the trail stays as
// anonymous as the content store itself.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xraph/confess/id"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnAccessPurchased      = (*Extension)(nil)
	_ plugin.OnConfessionPosted     = (*Extension)(nil)
	_ plugin.OnCommentPosted        = (*Extension)(nil)
	_ plugin.OnReactionAdded        = (*Extension)(nil)
	_ plugin.OnReactionChanged      = (*Extension)(nil)
	_ plugin.OnReactionRemoved      = (*Extension)(nil)
	_ plugin.OnReportCreated        = (*Extension)(nil)
	_ plugin.OnReportVoted          = (*Extension)(nil)
	_ plugin.OnReportResolved       = (*Extension)(nil)
	_ plugin.OnContentHidden        = (*Extension)(nil)
	_ plugin.OnFundsWithdrawn       = (*Extension)(nil)
	_ plugin.OnSettingsUpdated      = (*Extension)(nil)
	_ plugin.OnOwnershipTransferred = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Confess lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Access hooks
// ──────────────────────────────────────────────────

// OnAccessPurchased implements plugin.OnAccessPurchased.
func (e *Extension) OnAccessPurchased(ctx context.Context, evt *plugin.AccessPurchased) error {
	action := ActionAccessPurchased
	if evt.Renewal {
		action = ActionAccessRenewed
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceMember, evt.Member.Address.String(), CategoryAccess, evt.At, "",
		"price", evt.Price.String(),
		"expires_at", evt.Member.ExpiresAt,
		"total_payments", evt.Member.TotalPayments,
	)
}

// ──────────────────────────────────────────────────
// Content hooks
// ──────────────────────────────────────────────────

// OnConfessionPosted implements plugin.OnConfessionPosted.
func (e *Extension) OnConfessionPosted(ctx context.Context, evt *plugin.ConfessionPosted) error {
	c := evt.Confession
	return e.record(ctx, ActionConfessionPosted, SeverityInfo, OutcomeSuccess,
		ResourceConfession, formatID(c.ID), CategoryContent, c.Timestamp, "",
		"category", c.Category.String(),
		"content_hash", c.ContentHash.String(),
	)
}

// OnCommentPosted implements plugin.OnCommentPosted.
func (e *Extension) OnCommentPosted(ctx context.Context, evt *plugin.CommentPosted) error {
	c := evt.Comment
	return e.record(ctx, ActionCommentPosted, SeverityInfo, OutcomeSuccess,
		ResourceComment, formatID(c.ID), CategoryContent, c.Timestamp, "",
		"confession_id", c.ConfessionID,
		"content_hash", c.ContentHash.String(),
	)
}

// ──────────────────────────────────────────────────
// Reaction hooks
// ──────────────────────────────────────────────────

// OnReactionAdded implements plugin.OnReactionAdded.
func (e *Extension) OnReactionAdded(ctx context.Context, evt *plugin.ReactionAdded) error {
	r := evt.Reaction
	return e.record(ctx, ActionReactionAdded, SeverityInfo, OutcomeSuccess,
		ResourceReaction, r.Subject.String(), CategoryContent, r.Timestamp, "",
		"actor", r.Actor.String(),
		"type", r.Type.String(),
	)
}

// OnReactionChanged implements plugin.OnReactionChanged.
func (e *Extension) OnReactionChanged(ctx context.Context, evt *plugin.ReactionChanged) error {
	r := evt.Reaction
	return e.record(ctx, ActionReactionChanged, SeverityInfo, OutcomeSuccess,
		ResourceReaction, r.Subject.String(), CategoryContent, r.Timestamp, "",
		"actor", r.Actor.String(),
		"type", r.Type.String(),
		"previous", evt.Previous.String(),
	)
}

// OnReactionRemoved implements plugin.OnReactionRemoved.
func (e *Extension) OnReactionRemoved(ctx context.Context, evt *plugin.ReactionRemoved) error {
	return e.record(ctx, ActionReactionRemoved, SeverityInfo, OutcomeSuccess,
		ResourceReaction, evt.Subject.String(), CategoryContent, evt.At, "",
		"actor", evt.Actor.String(),
		"type", evt.Type.String(),
	)
}

// ──────────────────────────────────────────────────
// Moderation hooks
// ──────────────────────────────────────────────────

// OnReportCreated implements plugin.OnReportCreated.
func (e *Extension) OnReportCreated(ctx context.Context, evt *plugin.ReportCreated) error {
	r := evt.Report
	return e.record(ctx, ActionReportCreated, SeverityWarning, OutcomeSuccess,
		ResourceReport, formatID(r.ID), CategoryModeration, r.Timestamp, r.Reason.String(),
		"target", r.Target.String(),
		"reporter", evt.Reporter.String(),
		"vote_threshold", r.VoteThreshold,
		"approval_percentage", r.ApprovalPercentage,
	)
}

// OnReportVoted implements plugin.OnReportVoted.
func (e *Extension) OnReportVoted(ctx context.Context, evt *plugin.ReportVoted) error {
	return e.record(ctx, ActionReportVoted, SeverityInfo, OutcomeSuccess,
		ResourceReport, formatID(evt.ReportID), CategoryModeration, evt.At, "",
		"voter", evt.Voter.String(),
		"support_removal", evt.SupportRemoval,
		"votes_for", evt.VotesFor,
		"votes_against", evt.VotesAgainst,
	)
}

// OnReportResolved implements plugin.OnReportResolved.
func (e *Extension) OnReportResolved(ctx context.Context, evt *plugin.ReportResolved) error {
	r := evt.Report
	outcome := OutcomeFailure
	if r.Hidden {
		outcome = OutcomeSuccess
	}
	return e.record(ctx, ActionReportResolved, SeverityInfo, outcome,
		ResourceReport, formatID(r.ID), CategoryModeration, r.ResolvedAt, "",
		"target", r.Target.String(),
		"votes_for", r.VotesFor,
		"votes_against", r.VotesAgainst,
		"hidden", r.Hidden,
	)
}

// OnContentHidden implements plugin.OnContentHidden.
func (e *Extension) OnContentHidden(ctx context.Context, evt *plugin.ContentHidden) error {
	resource := ResourceConfession
	if evt.Target.Type == moderation.TargetComment {
		resource = ResourceComment
	}
	severity, reason := SeverityWarning, "community vote"
	if !evt.ByVote {
		severity, reason = SeverityCritical, "emergency override"
	}
	return e.record(ctx, ActionContentHidden, severity, OutcomeSuccess,
		resource, formatID(evt.Target.ID), CategoryModeration, evt.At, reason,
		"by_vote", evt.ByVote,
		"report_id", evt.ReportID,
	)
}

// ──────────────────────────────────────────────────
// Admin hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (e *Extension) OnFundsWithdrawn(ctx context.Context, evt *plugin.FundsWithdrawn) error {
	return e.record(ctx, ActionFundsWithdrawn, SeverityCritical, OutcomeSuccess,
		ResourceTreasury, evt.To.String(), CategoryPayment, evt.At, "",
		"amount", evt.Amount.String(),
	)
}

// OnSettingsUpdated implements plugin.OnSettingsUpdated.
func (e *Extension) OnSettingsUpdated(ctx context.Context, evt *plugin.SettingsUpdated) error {
	return e.record(ctx, ActionSettingsUpdated, SeverityWarning, OutcomeSuccess,
		ResourcePlatform, "", CategoryAdmin, evt.At, "",
		"previous_vote_threshold", evt.Previous.VoteThreshold,
		"previous_approval_percentage", evt.Previous.ApprovalPercentage,
		"vote_threshold", evt.Current.VoteThreshold,
		"approval_percentage", evt.Current.ApprovalPercentage,
	)
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, evt *plugin.OwnershipTransferred) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityCritical, OutcomeSuccess,
		ResourcePlatform, "", CategoryAdmin, evt.At, "",
		"previous_owner", evt.Previous.String(),
		"new_owner", evt.Current.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged and never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	at time.Time,
	reason string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		ID:         id.NewEventID().String(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
		OccurredAt: at,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

func formatID(n uint64) string { return strconv.FormatUint(n, 10) }
