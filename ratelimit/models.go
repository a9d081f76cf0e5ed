// Package ratelimit enforces per-identity cooldowns and rolling daily limits.
//
// State is plain data owned by the engine's store and updated in the same
// transaction as the action it gates. Nothing here blocks or sleeps: waiting
// is a timestamp comparison against the action's execution time.
package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"github.com/xraph/confess/types"
)

// Sentinel errors returned by Policy.Check.
var (
	ErrCooldownNotElapsed = errors.New("confess: cooldown not elapsed")
	ErrDailyLimitReached  = errors.New("confess: daily limit reached")
)

// DefaultWindow is the length of the rolling daily window.
const DefaultWindow = 24 * time.Hour

// Action identifies the kind of rate-limited action.
type Action string

const (
	ActionConfession Action = "confession"
	ActionComment    Action = "comment"
	ActionReport     Action = "report"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionConfession, ActionComment, ActionReport:
		return true
	}
	return false
}

// Policy bounds how often one identity may perform an action.
type Policy struct {
	Cooldown   time.Duration `json:"cooldown" yaml:"cooldown" mapstructure:"cooldown"`
	DailyLimit int           `json:"daily_limit" yaml:"daily_limit" mapstructure:"daily_limit"` // 0 = unlimited
	Window     time.Duration `json:"window" yaml:"window" mapstructure:"window"`
}

// Policies maps each action to its policy. Actions without an entry are unlimited.
type Policies map[Action]Policy

// DefaultPolicies returns the platform's standard limits: confessions every
// 5 minutes and 10 per day, comments every minute and 30 per day, reports
// every hour with no daily cap.
func DefaultPolicies() Policies {
	return Policies{
		ActionConfession: {Cooldown: 5 * time.Minute, DailyLimit: 10, Window: DefaultWindow},
		ActionComment:    {Cooldown: time.Minute, DailyLimit: 30, Window: DefaultWindow},
		ActionReport:     {Cooldown: time.Hour, Window: DefaultWindow},
	}
}

// Key identifies one rate-limit record.
type Key struct {
	Identity types.Address
	Action   Action
}

func (k Key) String() string { return fmt.Sprintf("%s:%s", k.Identity, k.Action) }

// State is the per (identity, action) rate-limit record.
type State struct {
	Identity     types.Address `json:"identity"`
	Action       Action        `json:"action"`
	LastActionAt time.Time     `json:"last_action_at"`
	WindowStart  time.Time     `json:"window_start"`
	Count        int           `json:"count"`
}

// Key returns the record's key.
func (s State) Key() Key { return Key{Identity: s.Identity, Action: s.Action} }

func (p Policy) window() time.Duration {
	if p.Window <= 0 {
		return DefaultWindow
	}
	return p.Window
}

// CountAt returns the number of actions inside the window that is current at now.
// An elapsed window counts as empty; it is reset lazily on the next Record.
func (p Policy) CountAt(s State, now time.Time) int {
	if s.WindowStart.IsZero() || !now.Before(s.WindowStart.Add(p.window())) {
		return 0
	}
	return s.Count
}

// Check returns nil if the action may run at now.
func (p Policy) Check(s State, now time.Time) error {
	if p.Cooldown > 0 && !s.LastActionAt.IsZero() && now.Sub(s.LastActionAt) < p.Cooldown {
		return fmt.Errorf("%w: %s remaining", ErrCooldownNotElapsed, p.Cooldown-now.Sub(s.LastActionAt))
	}
	if p.DailyLimit > 0 && p.CountAt(s, now) >= p.DailyLimit {
		return ErrDailyLimitReached
	}
	return nil
}

// Record returns the state after one more action at now.
func (p Policy) Record(s State, now time.Time) State {
	if p.CountAt(s, now) == 0 {
		s.WindowStart = now
		s.Count = 0
	}
	s.Count++
	s.LastActionAt = now
	return s
}

// NextAllowedAt returns the earliest time the cooldown permits another action.
func (p Policy) NextAllowedAt(s State) time.Time {
	if s.LastActionAt.IsZero() {
		return time.Time{}
	}
	return s.LastActionAt.Add(p.Cooldown)
}
