package plugin

import (
	"time"

	"github.com/xraph/confess/access"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/types"
)

// Events are values copied out of committed state; plugins may keep them.

// AccessPurchased is emitted after a paid membership period is recorded.
type AccessPurchased struct {
	Member  access.Member
	Price   types.Amount
	Renewal bool
	At      time.Time
}

// ConfessionPosted is emitted after a confession is stored.
type ConfessionPosted struct {
	Confession content.Confession
}

// CommentPosted is emitted after a comment is stored.
type CommentPosted struct {
	Comment content.Comment
}

// ReactionAdded is emitted when an actor reacts to a subject.
type ReactionAdded struct {
	Reaction reaction.Reaction
}

// ReactionChanged is emitted when an actor replaces their reaction.
type ReactionChanged struct {
	Reaction reaction.Reaction
	Previous reaction.Type
}

// ReactionRemoved is emitted when an actor withdraws their reaction.
type ReactionRemoved struct {
	Subject reaction.Subject
	Actor   types.Address
	Type    reaction.Type
	At      time.Time
}

// ReportCreated is emitted when content is reported.
type ReportCreated struct {
	Report   moderation.Report
	Reporter types.Address
}

// ReportVoted is emitted for every accepted ballot, including the one that
// resolves the report.
type ReportVoted struct {
	ReportID       uint64
	Voter          types.Address
	SupportRemoval bool
	VotesFor       int64
	VotesAgainst   int64
	TotalVoters    int64
	At             time.Time
}

// ReportResolved is emitted once per report, when its vote threshold is met.
type ReportResolved struct {
	Report moderation.Report
}

// ContentHidden is emitted when content is hidden. ByVote distinguishes a
// community vote from the owner's emergency override; ReportID is zero for
// the latter.
type ContentHidden struct {
	Target   moderation.Target
	ByVote   bool
	ReportID uint64
	At       time.Time
}

// FundsWithdrawn is emitted after the owner moves treasury funds.
type FundsWithdrawn struct {
	To     types.Address
	Amount types.Amount
	At     time.Time
}

// SettingsUpdated is emitted after the moderation settings change.
type SettingsUpdated struct {
	Previous moderation.Settings
	Current  moderation.Settings
	At       time.Time
}

// OwnershipTransferred is emitted after the owner role moves.
type OwnershipTransferred struct {
	Previous types.Address
	Current  types.Address
	At       time.Time
}
