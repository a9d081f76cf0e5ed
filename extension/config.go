package extension

import (
	"time"

	"github.com/xraph/confess/access"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/types"
)

// Journal drivers understood by JournalConfig.Driver.
const (
	JournalMemory   = "memory"
	JournalPebble   = "pebble"
	JournalPostgres = "postgres"
	JournalSQLite   = "sqlite"
	JournalMongo    = "mongo"
)

// JournalConfig selects where committed commands are recorded.
type JournalConfig struct {
	// Driver is one of memory, pebble, postgres, sqlite or mongo
	// (default: memory). The grove drivers need WithGroveDB.
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// Path is the Pebble data directory.
	Path string `json:"path" mapstructure:"path" yaml:"path"`
}

// Config holds the Confess extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.confess" or "confess" keys).
type Config struct {
	// Owner is the initial platform owner address.
	Owner string `json:"owner" mapstructure:"owner" yaml:"owner"`

	// Treasury is the address that collects membership payments.
	Treasury string `json:"treasury" mapstructure:"treasury" yaml:"treasury"`

	// TokenAddress identifies the payment token. It is used to build the
	// in-memory token when WithToken is not given.
	TokenAddress string `json:"token_address" mapstructure:"token_address" yaml:"token_address"`

	// AccessPrice is the membership price in token units (default: 1 USDC).
	AccessPrice int64 `json:"access_price" mapstructure:"access_price" yaml:"access_price"`

	// AccessDuration is the length of one membership period (default: 30 days).
	AccessDuration time.Duration `json:"access_duration" mapstructure:"access_duration" yaml:"access_duration"`

	// Moderation seeds the platform's moderation settings on first start.
	Moderation moderation.Settings `json:"moderation" mapstructure:"moderation" yaml:"moderation"`

	// HookTimeout bounds each plugin hook call (default: 5s).
	HookTimeout time.Duration `json:"hook_timeout" mapstructure:"hook_timeout" yaml:"hook_timeout"`

	// Journal selects the journal backend.
	Journal JournalConfig `json:"journal" mapstructure:"journal" yaml:"journal"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AccessPrice:    access.DefaultPrice.Units(),
		AccessDuration: access.DefaultDuration,
		Moderation:     moderation.DefaultSettings(),
		HookTimeout:    plugin.DefaultHookTimeout,
		Journal:        JournalConfig{Driver: JournalMemory},
	}
}

func (c Config) price() types.Amount { return types.USDC(c.AccessPrice) }
