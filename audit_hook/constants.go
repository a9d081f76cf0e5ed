package audithook

// Action constants for audit events.
const (
	// Access actions
	ActionAccessPurchased = "access.purchased"
	ActionAccessRenewed   = "access.renewed"

	// Content actions
	ActionConfessionPosted = "confession.posted"
	ActionCommentPosted    = "comment.posted"

	// Reaction actions
	ActionReactionAdded   = "reaction.added"
	ActionReactionChanged = "reaction.changed"
	ActionReactionRemoved = "reaction.removed"

	// Moderation actions
	ActionReportCreated  = "report.created"
	ActionReportVoted    = "report.voted"
	ActionReportResolved = "report.resolved"
	ActionContentHidden  = "content.hidden"

	// Admin actions
	ActionFundsWithdrawn       = "funds.withdrawn"
	ActionSettingsUpdated      = "settings.updated"
	ActionOwnershipTransferred = "ownership.transferred"
)

// Resource constants for audit events.
const (
	ResourceMember     = "member"
	ResourceConfession = "confession"
	ResourceComment    = "comment"
	ResourceReaction   = "reaction"
	ResourceReport     = "report"
	ResourceTreasury   = "treasury"
	ResourcePlatform   = "platform"
)

// Category constants for audit events.
const (
	CategoryAccess     = "access"
	CategoryContent    = "content"
	CategoryModeration = "moderation"
	CategoryPayment    = "payment"
	CategoryAdmin      = "admin"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
