package extension

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/confess"
	"github.com/xraph/confess/journal"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/store"
)

// Option configures the Confess Forge extension.
type Option func(*Extension)

// WithStore sets the state store for the engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithJournal sets the journal directly, bypassing Config.Journal.
func WithJournal(j journal.Store) Option {
	return func(e *Extension) {
		e.journal = j
	}
}

// WithToken sets the payment token collaborator.
func WithToken(t payment.Token) Option {
	return func(e *Extension) {
		e.token = t
	}
}

// WithGroveDB supplies the database used by the postgres, sqlite and
// mongo journal drivers.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}

// WithConfessOption passes a confess.Option through to the underlying engine.
func WithConfessOption(opt confess.Option) Option {
	return func(e *Extension) {
		e.confessOpts = append(e.confessOpts, opt)
	}
}

// WithPlugin registers a confess plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.confessOpts = append(e.confessOpts, confess.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithOwner sets the initial platform owner.
func WithOwner(addr string) Option {
	return func(e *Extension) { e.config.Owner = addr }
}

// WithTreasury sets the treasury address.
func WithTreasury(addr string) Option {
	return func(e *Extension) { e.config.Treasury = addr }
}

// WithAccessPrice sets the membership price in token units.
func WithAccessPrice(units int64) Option {
	return func(e *Extension) { e.config.AccessPrice = units }
}

// WithAccessDuration sets the length of one membership period.
func WithAccessDuration(d time.Duration) Option {
	return func(e *Extension) { e.config.AccessDuration = d }
}

// WithModeration sets the initial moderation settings.
func WithModeration(s moderation.Settings) Option {
	return func(e *Extension) { e.config.Moderation = s }
}

// WithPebbleJournal records the journal in a Pebble database at path.
func WithPebbleJournal(path string) Option {
	return func(e *Extension) {
		e.config.Journal = JournalConfig{Driver: JournalPebble, Path: path}
	}
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
