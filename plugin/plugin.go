// Package plugin provides an extensible plugin system for Confess.
// Plugins implement any subset of the hook interfaces below and are notified
// after each committed mutation. Hooks never run during journal replay.
package plugin

import "context"

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts, after replay.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Access hooks
// ──────────────────────────────────────────────────

// OnAccessPurchased is called after a membership purchase or renewal.
type OnAccessPurchased interface {
	Plugin
	OnAccessPurchased(ctx context.Context, evt *AccessPurchased) error
}

// ──────────────────────────────────────────────────
// Content hooks
// ──────────────────────────────────────────────────

// OnConfessionPosted is called after a confession is posted.
type OnConfessionPosted interface {
	Plugin
	OnConfessionPosted(ctx context.Context, evt *ConfessionPosted) error
}

// OnCommentPosted is called after a comment is posted.
type OnCommentPosted interface {
	Plugin
	OnCommentPosted(ctx context.Context, evt *CommentPosted) error
}

// ──────────────────────────────────────────────────
// Reaction hooks
// ──────────────────────────────────────────────────

// OnReactionAdded is called after a reaction is added.
type OnReactionAdded interface {
	Plugin
	OnReactionAdded(ctx context.Context, evt *ReactionAdded) error
}

// OnReactionChanged is called after a reaction changes type.
type OnReactionChanged interface {
	Plugin
	OnReactionChanged(ctx context.Context, evt *ReactionChanged) error
}

// OnReactionRemoved is called after a reaction is removed.
type OnReactionRemoved interface {
	Plugin
	OnReactionRemoved(ctx context.Context, evt *ReactionRemoved) error
}

// ──────────────────────────────────────────────────
// Moderation hooks
// ──────────────────────────────────────────────────

// OnReportCreated is called after content is reported.
type OnReportCreated interface {
	Plugin
	OnReportCreated(ctx context.Context, evt *ReportCreated) error
}

// OnReportVoted is called after a ballot is counted.
type OnReportVoted interface {
	Plugin
	OnReportVoted(ctx context.Context, evt *ReportVoted) error
}

// OnReportResolved is called when a report reaches its vote threshold.
type OnReportResolved interface {
	Plugin
	OnReportResolved(ctx context.Context, evt *ReportResolved) error
}

// OnContentHidden is called when a confession or comment is hidden.
type OnContentHidden interface {
	Plugin
	OnContentHidden(ctx context.Context, evt *ContentHidden) error
}

// ──────────────────────────────────────────────────
// Administrative hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn is called after the owner withdraws treasury funds.
type OnFundsWithdrawn interface {
	Plugin
	OnFundsWithdrawn(ctx context.Context, evt *FundsWithdrawn) error
}

// OnSettingsUpdated is called after moderation settings change.
type OnSettingsUpdated interface {
	Plugin
	OnSettingsUpdated(ctx context.Context, evt *SettingsUpdated) error
}

// OnOwnershipTransferred is called after the owner role moves.
type OnOwnershipTransferred interface {
	Plugin
	OnOwnershipTransferred(ctx context.Context, evt *OwnershipTransferred) error
}
