// Package access tracks paid, time-bounded platform memberships.
package access

import (
	"time"

	"github.com/xraph/confess/types"
)

// Defaults for a membership period.
const DefaultDuration = 30 * 24 * time.Hour

// DefaultPrice is the fee for one membership period.
var DefaultPrice = types.WholeUSDC(1)

type Member struct {
	Address       types.Address `json:"address"`
	ExpiresAt     time.Time     `json:"expiration_timestamp"`
	TotalPayments int64         `json:"total_payments"`
	JoinedAt      time.Time     `json:"joined_at"`
	LastRenewalAt time.Time     `json:"last_renewal_at"`
}

// IsActive reports whether the membership is live at now.
func (m *Member) IsActive(now time.Time) bool {
	return m != nil && now.Before(m.ExpiresAt)
}

// Remaining returns the access time left at now, never negative.
func (m *Member) Remaining(now time.Time) time.Duration {
	if !m.IsActive(now) {
		return 0
	}
	return m.ExpiresAt.Sub(now)
}

// Renew returns the member after one paid period of length d at now.
// A first purchase or an expired membership starts a fresh period; an
// active membership is extended from its current expiration, so renewing
// early never loses time. prev may be nil.
func Renew(prev *Member, addr types.Address, now time.Time, d time.Duration) *Member {
	var m Member
	switch {
	case prev == nil:
		m = Member{Address: addr, JoinedAt: now, ExpiresAt: now.Add(d)}
	case !prev.IsActive(now):
		m = *prev
		m.ExpiresAt = now.Add(d)
	default:
		m = *prev
		m.ExpiresAt = prev.ExpiresAt.Add(d)
	}
	m.TotalPayments++
	m.LastRenewalAt = now
	return &m
}

// Details is the caller-facing view of a membership at a point in time.
type Details struct {
	HasAccess     bool          `json:"has_access"`
	ExpiresAt     time.Time     `json:"expiration_timestamp"`
	Remaining     time.Duration `json:"remaining"`
	TotalPayments int64         `json:"total_payments"`
	JoinedAt      time.Time     `json:"joined_at"`
	LastRenewalAt time.Time     `json:"last_renewal_at"`
}

// DetailsAt builds the Details view at now. A nil member yields a zero view.
func (m *Member) DetailsAt(now time.Time) Details {
	if m == nil {
		return Details{}
	}
	return Details{
		HasAccess:     m.IsActive(now),
		ExpiresAt:     m.ExpiresAt,
		Remaining:     m.Remaining(now),
		TotalPayments: m.TotalPayments,
		JoinedAt:      m.JoinedAt,
		LastRenewalAt: m.LastRenewalAt,
	}
}
