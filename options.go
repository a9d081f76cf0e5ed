package confess

import (
	"log/slog"
	"maps"
	"time"

	"github.com/xraph/confess/journal"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/types"
)

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		if err := e.plugins.Register(p); err != nil {
			e.logger.Warn("confess: plugin not registered", "plugin", p.Name(), "error", err)
		}
	}
}

// WithJournal sets the durable operation journal. The default keeps the
// journal in memory, which loses history on restart.
func WithJournal(j journal.Store) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithClock sets the time source commands execute at.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithPrice sets the fee for one membership period.
func WithPrice(price types.Amount) Option {
	return func(e *Engine) {
		e.price = price
	}
}

// WithAccessDuration sets the length of one membership period.
func WithAccessDuration(d time.Duration) Option {
	return func(e *Engine) {
		e.duration = d
	}
}

// WithRateLimits overrides the per-action policies. Actions missing from
// policies keep their defaults.
func WithRateLimits(policies ratelimit.Policies) Option {
	return func(e *Engine) {
		maps.Copy(e.limits, policies)
	}
}

// WithModerationSettings sets the initial moderation settings. The owner can
// change them later with UpdateModerationSettings.
func WithModerationSettings(s moderation.Settings) Option {
	return func(e *Engine) {
		e.moderation = s
	}
}

// WithHookTimeout bounds how long each plugin hook may run.
func WithHookTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.plugins.WithTimeout(d)
	}
}

// Clock is the engine's time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
