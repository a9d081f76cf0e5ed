// Package observability provides a metrics extension for Confess that records
// lifecycle event counts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnAccessPurchased      = (*MetricsExtension)(nil)
	_ plugin.OnConfessionPosted     = (*MetricsExtension)(nil)
	_ plugin.OnCommentPosted        = (*MetricsExtension)(nil)
	_ plugin.OnReactionAdded        = (*MetricsExtension)(nil)
	_ plugin.OnReactionChanged      = (*MetricsExtension)(nil)
	_ plugin.OnReactionRemoved      = (*MetricsExtension)(nil)
	_ plugin.OnReportCreated        = (*MetricsExtension)(nil)
	_ plugin.OnReportVoted          = (*MetricsExtension)(nil)
	_ plugin.OnReportResolved       = (*MetricsExtension)(nil)
	_ plugin.OnContentHidden        = (*MetricsExtension)(nil)
	_ plugin.OnFundsWithdrawn       = (*MetricsExtension)(nil)
	_ plugin.OnSettingsUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnOwnershipTransferred = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Confess plugin to automatically track platform metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Access metrics
	AccessPurchased Counter
	AccessRenewed   Counter
	AccessRevenue   Counter
	AccessPrice     Histogram

	// Content metrics
	ConfessionPosted Counter
	CommentPosted    Counter

	// Reaction metrics
	ReactionAdded   Counter
	ReactionChanged Counter
	ReactionRemoved Counter

	// Moderation metrics
	ReportCreated    Counter
	ReportVoted      Counter
	ReportResolved   Counter
	ReportVoters     Histogram
	ConfessionHidden Counter
	CommentHidden    Counter
	EmergencyHides   Counter
	SettingsUpdated  Counter

	// Treasury metrics
	FundsWithdrawn       Counter
	WithdrawnAmount      Counter
	OwnershipTransferred Counter

	// Lifecycle metrics
	EngineStarts Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions or NewPrometheusFactory standalone.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		AccessPurchased: factory.Counter("confess.access.purchased"),
		AccessRenewed:   factory.Counter("confess.access.renewed"),
		AccessRevenue:   factory.Counter("confess.access.revenue_usdc"),
		AccessPrice:     factory.Histogram("confess.access.price_usdc"),

		ConfessionPosted: factory.Counter("confess.confession.posted"),
		CommentPosted:    factory.Counter("confess.comment.posted"),

		ReactionAdded:   factory.Counter("confess.reaction.added"),
		ReactionChanged: factory.Counter("confess.reaction.changed"),
		ReactionRemoved: factory.Counter("confess.reaction.removed"),

		ReportCreated:    factory.Counter("confess.report.created"),
		ReportVoted:      factory.Counter("confess.report.voted"),
		ReportResolved:   factory.Counter("confess.report.resolved"),
		ReportVoters:     factory.Histogram("confess.report.voters"),
		ConfessionHidden: factory.Counter("confess.confession.hidden"),
		CommentHidden:    factory.Counter("confess.comment.hidden"),
		EmergencyHides:   factory.Counter("confess.moderation.emergency_hides"),
		SettingsUpdated:  factory.Counter("confess.moderation.settings_updated"),

		FundsWithdrawn:       factory.Counter("confess.treasury.withdrawals"),
		WithdrawnAmount:      factory.Counter("confess.treasury.withdrawn_usdc"),
		OwnershipTransferred: factory.Counter("confess.platform.ownership_transferred"),

		EngineStarts: factory.Counter("confess.engine.starts"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	m.EngineStarts.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Access hooks
// ──────────────────────────────────────────────────

// OnAccessPurchased implements plugin.OnAccessPurchased.
func (m *MetricsExtension) OnAccessPurchased(_ context.Context, evt *plugin.AccessPurchased) error {
	if evt.Renewal {
		m.AccessRenewed.Inc()
	} else {
		m.AccessPurchased.Inc()
	}
	m.AccessRevenue.Add(evt.Price.Float())
	m.AccessPrice.Observe(evt.Price.Float())
	return nil
}

// ──────────────────────────────────────────────────
// Content hooks
// ──────────────────────────────────────────────────

// OnConfessionPosted implements plugin.OnConfessionPosted.
func (m *MetricsExtension) OnConfessionPosted(_ context.Context, _ *plugin.ConfessionPosted) error {
	m.ConfessionPosted.Inc()
	return nil
}

// OnCommentPosted implements plugin.OnCommentPosted.
func (m *MetricsExtension) OnCommentPosted(_ context.Context, _ *plugin.CommentPosted) error {
	m.CommentPosted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Reaction hooks
// ──────────────────────────────────────────────────

// OnReactionAdded implements plugin.OnReactionAdded.
func (m *MetricsExtension) OnReactionAdded(_ context.Context, _ *plugin.ReactionAdded) error {
	m.ReactionAdded.Inc()
	return nil
}

// OnReactionChanged implements plugin.OnReactionChanged.
func (m *MetricsExtension) OnReactionChanged(_ context.Context, _ *plugin.ReactionChanged) error {
	m.ReactionChanged.Inc()
	return nil
}

// OnReactionRemoved implements plugin.OnReactionRemoved.
func (m *MetricsExtension) OnReactionRemoved(_ context.Context, _ *plugin.ReactionRemoved) error {
	m.ReactionRemoved.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Moderation hooks
// ──────────────────────────────────────────────────

// OnReportCreated implements plugin.OnReportCreated.
func (m *MetricsExtension) OnReportCreated(_ context.Context, _ *plugin.ReportCreated) error {
	m.ReportCreated.Inc()
	return nil
}

// OnReportVoted implements plugin.OnReportVoted.
func (m *MetricsExtension) OnReportVoted(_ context.Context, _ *plugin.ReportVoted) error {
	m.ReportVoted.Inc()
	return nil
}

// OnReportResolved implements plugin.OnReportResolved.
func (m *MetricsExtension) OnReportResolved(_ context.Context, evt *plugin.ReportResolved) error {
	m.ReportResolved.Inc()
	m.ReportVoters.Observe(float64(evt.Report.TotalVoters))
	return nil
}

// OnContentHidden implements plugin.OnContentHidden.
func (m *MetricsExtension) OnContentHidden(_ context.Context, evt *plugin.ContentHidden) error {
	switch evt.Target.Type {
	case moderation.TargetComment:
		m.CommentHidden.Inc()
	default:
		m.ConfessionHidden.Inc()
	}
	if !evt.ByVote {
		m.EmergencyHides.Inc()
	}
	return nil
}

// OnSettingsUpdated implements plugin.OnSettingsUpdated.
func (m *MetricsExtension) OnSettingsUpdated(_ context.Context, _ *plugin.SettingsUpdated) error {
	m.SettingsUpdated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Treasury hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (m *MetricsExtension) OnFundsWithdrawn(_ context.Context, evt *plugin.FundsWithdrawn) error {
	m.FundsWithdrawn.Inc()
	m.WithdrawnAmount.Add(evt.Amount.Float())
	return nil
}

// OnOwnershipTransferred implements plugin.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _ *plugin.OwnershipTransferred) error {
	m.OwnershipTransferred.Inc()
	return nil
}
