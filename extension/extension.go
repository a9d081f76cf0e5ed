// Package extension provides the Forge extension adapter for Confess.
//
// It implements the forge.Extension interface to integrate the Confess
// engine into a Forge application with DI registration and lifecycle
// management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.confess" or "confess" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	"github.com/xraph/confess"
	"github.com/xraph/confess/journal"
	journalmemory "github.com/xraph/confess/journal/memory"
	journalmongo "github.com/xraph/confess/journal/mongo"
	journalpebble "github.com/xraph/confess/journal/pebble"
	journalpostgres "github.com/xraph/confess/journal/postgres"
	journalsqlite "github.com/xraph/confess/journal/sqlite"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/store/memory"
	"github.com/xraph/confess/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "confess"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Payment-gated anonymous confession engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Confess as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config      Config
	engine      *confess.Engine
	store       store.Store
	journal     journal.Store
	token       payment.Token
	groveDB     *grove.DB
	confessOpts []confess.Option
}

// New creates a new Confess Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Confess engine.
// This is nil until Register is called.
func (e *Extension) Engine() *confess.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// builds the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	eng, err := e.build()
	if err != nil {
		return err
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*confess.Engine, error) {
		return e.engine, nil
	})
}

// build resolves the collaborators and constructs the engine from the
// already merged config.
func (e *Extension) build() (*confess.Engine, error) {
	owner, err := types.ParseAddress(e.config.Owner)
	if err != nil {
		return nil, fmt.Errorf("confess: owner: %w", err)
	}
	treasury, err := types.ParseAddress(e.config.Treasury)
	if err != nil {
		return nil, fmt.Errorf("confess: treasury: %w", err)
	}

	if e.token == nil {
		addr, err := types.ParseAddress(e.config.TokenAddress)
		if err != nil {
			return nil, fmt.Errorf("confess: token address: %w", err)
		}
		e.token = payment.NewMemoryToken(addr)
	}

	if e.store == nil {
		e.store = memory.New()
	}

	if e.journal == nil {
		j, err := e.openJournal()
		if err != nil {
			return nil, err
		}
		e.journal = j
	}

	return confess.New(e.store, e.token, owner, treasury, e.buildConfessOpts()...)
}

// openJournal constructs the journal named by the config.
func (e *Extension) openJournal() (journal.Store, error) {
	cfg := e.config.Journal
	switch cfg.Driver {
	case "", JournalMemory:
		return journalmemory.New(), nil
	case JournalPebble:
		if cfg.Path == "" {
			return nil, errors.New("confess: pebble journal requires a path")
		}
		return journalpebble.Open(cfg.Path)
	case JournalPostgres, JournalSQLite, JournalMongo:
		if e.groveDB == nil {
			return nil, fmt.Errorf("confess: %s journal requires WithGroveDB", cfg.Driver)
		}
	default:
		return nil, fmt.Errorf("confess: unknown journal driver %q", cfg.Driver)
	}

	switch cfg.Driver {
	case JournalPostgres:
		return journalpostgres.New(e.groveDB), nil
	case JournalSQLite:
		return journalsqlite.New(e.groveDB), nil
	default:
		return journalmongo.New(e.groveDB), nil
	}
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("confess: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil || e.journal == nil {
		return errors.New("confess: store not initialized")
	}
	if err := e.store.Ping(ctx); err != nil {
		return err
	}
	return e.journal.Ping(ctx)
}

// buildConfessOpts constructs confess.Option values from the resolved config.
func (e *Extension) buildConfessOpts() []confess.Option {
	opts := make([]confess.Option, 0, len(e.confessOpts)+5)

	opts = append(opts,
		confess.WithJournal(e.journal),
		confess.WithPrice(e.config.price()),
		confess.WithAccessDuration(e.config.AccessDuration),
		confess.WithModerationSettings(e.config.Moderation),
		confess.WithHookTimeout(e.config.HookTimeout),
	)

	// Pass-through options win over config-derived ones.
	opts = append(opts, e.confessOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("confess: configuration is required but not found in config files; " +
				"ensure 'extensions.confess' or 'confess' key exists in your config")
		}

		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("confess: configuration loaded",
		forge.F("owner", e.config.Owner),
		forge.F("treasury", e.config.Treasury),
		forge.F("access_price", e.config.AccessPrice),
		forge.F("access_duration", e.config.AccessDuration),
		forge.F("vote_threshold", e.config.Moderation.VoteThreshold),
		forge.F("approval_percentage", e.config.Moderation.ApprovalPercentage),
		forge.F("journal_driver", e.config.Journal.Driver),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.confess", "confess"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("confess: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("confess: loaded config from file",
			forge.F("key", key),
		)
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.AccessPrice == 0 {
		cfg.AccessPrice = defaults.AccessPrice
	}
	if cfg.AccessDuration == 0 {
		cfg.AccessDuration = defaults.AccessDuration
	}
	if cfg.Moderation.VoteThreshold == 0 {
		cfg.Moderation.VoteThreshold = defaults.Moderation.VoteThreshold
	}
	if cfg.Moderation.ApprovalPercentage == 0 {
		cfg.Moderation.ApprovalPercentage = defaults.Moderation.ApprovalPercentage
	}
	if cfg.HookTimeout == 0 {
		cfg.HookTimeout = defaults.HookTimeout
	}
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = defaults.Journal.Driver
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&yamlConfig.Owner, programmaticConfig.Owner)
	fill(&yamlConfig.Treasury, programmaticConfig.Treasury)
	fill(&yamlConfig.TokenAddress, programmaticConfig.TokenAddress)
	fill(&yamlConfig.Journal.Driver, programmaticConfig.Journal.Driver)
	fill(&yamlConfig.Journal.Path, programmaticConfig.Journal.Path)

	if yamlConfig.AccessPrice == 0 {
		yamlConfig.AccessPrice = programmaticConfig.AccessPrice
	}
	if yamlConfig.AccessDuration == 0 {
		yamlConfig.AccessDuration = programmaticConfig.AccessDuration
	}
	if yamlConfig.Moderation.VoteThreshold == 0 {
		yamlConfig.Moderation.VoteThreshold = programmaticConfig.Moderation.VoteThreshold
	}
	if yamlConfig.Moderation.ApprovalPercentage == 0 {
		yamlConfig.Moderation.ApprovalPercentage = programmaticConfig.Moderation.ApprovalPercentage
	}
	if yamlConfig.HookTimeout == 0 {
		yamlConfig.HookTimeout = programmaticConfig.HookTimeout
	}

	return mergeWithDefaults(yamlConfig)
}
