package confess

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/types"
)

// Command is one state mutation. Every command is journaled under its Kind
// and replayed through the same dispatcher that ran it live.
type Command interface {
	Kind() string
}

// Command kinds as recorded in the journal.
const (
	KindPurchaseAccess           = "purchase_access"
	KindPostConfession           = "post_confession"
	KindPostComment              = "post_comment"
	KindReact                    = "react"
	KindChangeReaction           = "change_reaction"
	KindRemoveReaction           = "remove_reaction"
	KindReportContent            = "report_content"
	KindVoteOnReport             = "vote_on_report"
	KindUpdateModerationSettings = "update_moderation_settings"
	KindEmergencyHideConfession  = "emergency_hide_confession"
	KindWithdrawFunds            = "withdraw_funds"
	KindTransferOwnership        = "transfer_ownership"
)

// PurchaseAccess buys one membership period. Price and Duration are the
// values in force when it ran, so replay reproduces the same expiration
// even if the engine is later configured differently.
type PurchaseAccess struct {
	Payer    types.Address `json:"payer"`
	Price    types.Amount  `json:"price"`
	Duration time.Duration `json:"duration"`
}

type PostConfession struct {
	Author      types.Address    `json:"author"`
	Category    content.Category `json:"category"`
	ContentHash types.Hash       `json:"content_hash"`
	Length      int              `json:"length"`
}

type PostComment struct {
	Author       types.Address `json:"author"`
	ConfessionID uint64        `json:"confession_id"`
	ContentHash  types.Hash    `json:"content_hash"`
	Length       int           `json:"length"`
}

type React struct {
	Actor   types.Address    `json:"actor"`
	Subject reaction.Subject `json:"subject"`
	Type    reaction.Type    `json:"type"`
}

type ChangeReaction struct {
	Actor   types.Address    `json:"actor"`
	Subject reaction.Subject `json:"subject"`
	Type    reaction.Type    `json:"type"`
}

type RemoveReaction struct {
	Actor   types.Address    `json:"actor"`
	Subject reaction.Subject `json:"subject"`
}

type ReportContent struct {
	Reporter types.Address     `json:"reporter"`
	Target   moderation.Target `json:"target"`
	Reason   moderation.Reason `json:"reason"`
}

type VoteOnReport struct {
	Voter          types.Address `json:"voter"`
	ReportID       uint64        `json:"report_id"`
	SupportRemoval bool          `json:"support_removal"`
}

type UpdateModerationSettings struct {
	Caller   types.Address       `json:"caller"`
	Settings moderation.Settings `json:"settings"`
}

type EmergencyHideConfession struct {
	Caller       types.Address `json:"caller"`
	ConfessionID uint64        `json:"confession_id"`
}

type WithdrawFunds struct {
	Caller types.Address `json:"caller"`
	To     types.Address `json:"to"`
	Amount types.Amount  `json:"amount"`
}

type TransferOwnership struct {
	Caller   types.Address `json:"caller"`
	NewOwner types.Address `json:"new_owner"`
}

func (*PurchaseAccess) Kind() string           { return KindPurchaseAccess }
func (*PostConfession) Kind() string           { return KindPostConfession }
func (*PostComment) Kind() string              { return KindPostComment }
func (*React) Kind() string                    { return KindReact }
func (*ChangeReaction) Kind() string           { return KindChangeReaction }
func (*RemoveReaction) Kind() string           { return KindRemoveReaction }
func (*ReportContent) Kind() string            { return KindReportContent }
func (*VoteOnReport) Kind() string             { return KindVoteOnReport }
func (*UpdateModerationSettings) Kind() string { return KindUpdateModerationSettings }
func (*EmergencyHideConfession) Kind() string  { return KindEmergencyHideConfession }
func (*WithdrawFunds) Kind() string            { return KindWithdrawFunds }
func (*TransferOwnership) Kind() string        { return KindTransferOwnership }

// newCommand returns an empty command for a journaled kind.
func newCommand(kind string) (Command, error) {
	switch kind {
	case KindPurchaseAccess:
		return &PurchaseAccess{}, nil
	case KindPostConfession:
		return &PostConfession{}, nil
	case KindPostComment:
		return &PostComment{}, nil
	case KindReact:
		return &React{}, nil
	case KindChangeReaction:
		return &ChangeReaction{}, nil
	case KindRemoveReaction:
		return &RemoveReaction{}, nil
	case KindReportContent:
		return &ReportContent{}, nil
	case KindVoteOnReport:
		return &VoteOnReport{}, nil
	case KindUpdateModerationSettings:
		return &UpdateModerationSettings{}, nil
	case KindEmergencyHideConfession:
		return &EmergencyHideConfession{}, nil
	case KindWithdrawFunds:
		return &WithdrawFunds{}, nil
	case KindTransferOwnership:
		return &TransferOwnership{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, kind)
}

// DecodeCommand rebuilds a command from its journaled kind and payload.
func DecodeCommand(kind string, payload []byte) (Command, error) {
	cmd, err := newCommand(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, cmd); err != nil {
		return nil, fmt.Errorf("confess: decode %s: %w", kind, err)
	}
	return cmd, nil
}
