// Package moderation models community reports against content and the
// threshold vote that resolves them.
package moderation

import (
	"errors"
	"fmt"
	"time"

	"github.com/xraph/confess/types"
)

// TargetType says what a report is filed against.
type TargetType uint8

const (
	TargetConfession TargetType = iota
	TargetComment
)

// Valid reports whether t is a defined target type.
func (t TargetType) Valid() bool { return t == TargetConfession || t == TargetComment }

func (t TargetType) String() string {
	switch t {
	case TargetConfession:
		return "confession"
	case TargetComment:
		return "comment"
	}
	return fmt.Sprintf("target(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TargetType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("moderation: invalid target type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TargetType) UnmarshalText(data []byte) error {
	switch string(data) {
	case "confession":
		*t = TargetConfession
	case "comment":
		*t = TargetComment
	default:
		return fmt.Errorf("moderation: unknown target type %q", data)
	}
	return nil
}

// Reason is why content was reported.
type Reason uint8

const (
	ReasonIllegal Reason = iota
	ReasonSpam
	ReasonHarassment
	ReasonOther
)

// NumReasons is the number of defined report reasons.
const NumReasons = int(ReasonOther) + 1

var reasonNames = [NumReasons]string{"illegal", "spam", "harassment", "other"}

// Valid reports whether r is a defined reason.
func (r Reason) Valid() bool { return int(r) < NumReasons }

func (r Reason) String() string {
	if !r.Valid() {
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
	return reasonNames[r]
}

// ParseReason parses a reason name.
func ParseReason(s string) (Reason, error) {
	for i, name := range reasonNames {
		if name == s {
			return Reason(i), nil
		}
	}
	return 0, fmt.Errorf("moderation: unknown reason %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("moderation: invalid reason %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(data []byte) error {
	parsed, err := ParseReason(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Target identifies reported content.
type Target struct {
	Type TargetType `json:"type"`
	ID   uint64     `json:"id"`
}

func (t Target) String() string { return fmt.Sprintf("%s/%d", t.Type, t.ID) }

// Settings controls when a report resolves and what outcome hides content.
type Settings struct {
	VoteThreshold      int64 `json:"vote_threshold" yaml:"vote_threshold" mapstructure:"vote_threshold"`
	ApprovalPercentage int64 `json:"approval_percentage" yaml:"approval_percentage" mapstructure:"approval_percentage"`
}

// DefaultSettings resolves a report after 10 votes and hides content at 70% approval.
func DefaultSettings() Settings {
	return Settings{VoteThreshold: 10, ApprovalPercentage: 70}
}

// Validate checks the threshold is at least one voter and the percentage lies in [1, 100].
func (s Settings) Validate() error {
	if s.VoteThreshold < 1 {
		return errors.New("vote threshold must be at least 1")
	}
	if s.ApprovalPercentage < 1 || s.ApprovalPercentage > 100 {
		return errors.New("approval percentage must be between 1 and 100")
	}
	return nil
}

// Report is a flag against content pending community review. The moderation
// settings in force when it was filed are copied into it and govern its
// resolution even if the platform settings change later.
type Report struct {
	ID                 uint64    `json:"id"`
	Target             Target    `json:"target"`
	Reason             Reason    `json:"reason"`
	VotesFor           int64     `json:"votes_for"`
	VotesAgainst       int64     `json:"votes_against"`
	TotalVoters        int64     `json:"total_voters"`
	Resolved           bool      `json:"resolved"`
	Hidden             bool      `json:"hidden"`
	Timestamp          time.Time `json:"timestamp"`
	ResolvedAt         time.Time `json:"resolved_at,omitzero"`
	VoteThreshold      int64     `json:"vote_threshold"`
	ApprovalPercentage int64     `json:"approval_percentage"`
}

// NewReport opens an unresolved report under settings s.
func NewReport(reportID uint64, target Target, reason Reason, s Settings, now time.Time) *Report {
	return &Report{
		ID:                 reportID,
		Target:             target,
		Reason:             reason,
		Timestamp:          now,
		VoteThreshold:      s.VoteThreshold,
		ApprovalPercentage: s.ApprovalPercentage,
	}
}

// ApprovalPercent returns floor(votesFor * 100 / totalVoters), or 0 with no voters.
func (r *Report) ApprovalPercent() int64 {
	if r.TotalVoters == 0 {
		return 0
	}
	return r.VotesFor * 100 / r.TotalVoters
}

// Tally counts one ballot. When the ballot brings the voter count to the
// threshold the report resolves, and hide reports whether the approval
// reached the configured percentage. Callers reject votes on resolved reports.
func (r *Report) Tally(supportRemoval bool, now time.Time) (resolved, hide bool) {
	if supportRemoval {
		r.VotesFor++
	} else {
		r.VotesAgainst++
	}
	r.TotalVoters++

	if r.TotalVoters < r.VoteThreshold {
		return false, false
	}

	r.Resolved = true
	r.ResolvedAt = now
	r.Hidden = r.ApprovalPercent() >= r.ApprovalPercentage
	return true, r.Hidden
}

// VoteKey identifies one voter's ballot on one report.
type VoteKey struct {
	ReportID uint64
	Voter    types.Address
}

type Vote struct {
	ReportID       uint64        `json:"report_id"`
	Voter          types.Address `json:"voter"`
	SupportRemoval bool          `json:"support_removal"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Key returns the vote's key.
func (v *Vote) Key() VoteKey { return VoteKey{ReportID: v.ReportID, Voter: v.Voter} }

// VoteStatus is a voter's view of their ballot on a report.
type VoteStatus struct {
	HasVoted bool `json:"has_voted"`
	VotedFor bool `json:"voted_for"`
}

type ListOpts struct {
	Limit  int
	Offset int
}
