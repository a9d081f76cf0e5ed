package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xraph/confess"
	"github.com/xraph/confess/extension"
	journalpebble "github.com/xraph/confess/journal/pebble"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/store/memory"
	"github.com/xraph/confess/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "confessctl",
	Short: "Inspect and replay a Confess journal",
	Long: `confessctl reads a Confess journal stored in Pebble, replays it into a
fresh in-memory engine and reports on the rebuilt state.

The owner and treasury in the config must match the deployment that wrote
the journal, otherwise owner-only commands fail to replay.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "confess.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openEngine replays the configured journal into a started engine. The
// caller must Stop it.
func openEngine(ctx context.Context, cfg extension.Config) (*confess.Engine, error) {
	owner, err := types.ParseAddress(cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	treasury, err := types.ParseAddress(cfg.Treasury)
	if err != nil {
		return nil, fmt.Errorf("treasury: %w", err)
	}
	tokenAddr, err := types.ParseAddress(cfg.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("token address: %w", err)
	}

	j, err := journalpebble.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	eng, err := confess.New(memory.New(), payment.NewMemoryToken(tokenAddr), owner, treasury,
		confess.WithLogger(logger()),
		confess.WithJournal(j),
		confess.WithPrice(types.USDC(cfg.AccessPrice)),
		confess.WithAccessDuration(cfg.AccessDuration),
		confess.WithModerationSettings(cfg.Moderation),
	)
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := eng.Start(ctx); err != nil {
		_ = j.Close()
		return nil, err
	}
	return eng, nil
}

// withEngine loads config, replays the journal and runs fn against the result.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, eng *confess.Engine) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	eng, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer eng.Stop()
	return fn(cmd.Context(), eng)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
