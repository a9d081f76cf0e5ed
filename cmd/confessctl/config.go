package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xraph/confess/extension"
)

// envPrefix namespaces every environment override.
const envPrefix = "CONFESS_"

// loadConfig reads the YAML file at path (a missing file is not an error),
// applies CONFESS_* overrides from the environment and any .env file in the
// working directory, then fills defaults.
func loadConfig(path string) (extension.Config, error) {
	_ = godotenv.Load(".env")

	var cfg extension.Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}

	def := extension.DefaultConfig()
	if cfg.AccessPrice == 0 {
		cfg.AccessPrice = def.AccessPrice
	}
	if cfg.AccessDuration == 0 {
		cfg.AccessDuration = def.AccessDuration
	}
	if cfg.Moderation.VoteThreshold == 0 {
		cfg.Moderation.VoteThreshold = def.Moderation.VoteThreshold
	}
	if cfg.Moderation.ApprovalPercentage == 0 {
		cfg.Moderation.ApprovalPercentage = def.Moderation.ApprovalPercentage
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "confess-journal"
	}
	switch cfg.Journal.Driver {
	case "":
		cfg.Journal.Driver = extension.JournalPebble
	case extension.JournalPebble:
	default:
		return cfg, fmt.Errorf("journal driver %q is not supported by confessctl; only %q journals can be read", cfg.Journal.Driver, extension.JournalPebble)
	}
	return cfg, nil
}

// applyEnv overlays non-empty CONFESS_* variables onto cfg.
func applyEnv(cfg *extension.Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	str("OWNER", &cfg.Owner)
	str("TREASURY", &cfg.Treasury)
	str("TOKEN_ADDRESS", &cfg.TokenAddress)
	str("JOURNAL_PATH", &cfg.Journal.Path)

	ints := []struct {
		name string
		dst  *int64
	}{
		{"ACCESS_PRICE", &cfg.AccessPrice},
		{"VOTE_THRESHOLD", &cfg.Moderation.VoteThreshold},
		{"APPROVAL_PERCENTAGE", &cfg.Moderation.ApprovalPercentage},
	}
	for _, f := range ints {
		v := getenv(envPrefix + f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, f.name, err)
		}
		*f.dst = n
	}

	if v := getenv(envPrefix + "ACCESS_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sACCESS_DURATION: %w", envPrefix, err)
		}
		cfg.AccessDuration = d
	}
	return nil
}
