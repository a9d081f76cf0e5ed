// Package platform holds the singleton platform record: ownership, the
// payment configuration and the treasury's accounting.
package platform

import (
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/types"
)

type State struct {
	Owner      types.Address       `json:"owner"`
	Token      types.Address       `json:"token"`
	Treasury   types.Address       `json:"treasury"`
	Moderation moderation.Settings `json:"moderation"`
	Collected  types.Amount        `json:"collected"`
	Withdrawn  types.Amount        `json:"withdrawn"`
}

// IsOwner reports whether addr holds the owner role.
func (s *State) IsOwner(addr types.Address) bool {
	return !addr.IsZero() && s.Owner == addr
}
