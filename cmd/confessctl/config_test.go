package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/extension"
	journalpebble "github.com/xraph/confess/journal/pebble"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/store/memory"
	"github.com/xraph/confess/types"
)

const (
	owner    = "0x000000000000000000000000000000000000a001"
	treasury = "0x000000000000000000000000000000000000a002"
	token    = "0x000000000000000000000000000000000000a003"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "confess.yaml")
	body := "owner: " + owner + "\n" +
		"treasury: " + treasury + "\n" +
		"token_address: " + token + "\n" +
		"access_duration: 48h\n" +
		"moderation:\n  vote_threshold: 3\n" +
		"journal:\n  path: " + filepath.Join(dir, "journal") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig(writeConfig(t, dir))
	require.NoError(t, err)

	assert.Equal(t, owner, cfg.Owner)
	assert.Equal(t, 48*time.Hour, cfg.AccessDuration)
	assert.Equal(t, int64(3), cfg.Moderation.VoteThreshold)
	assert.Equal(t, extension.DefaultConfig().Moderation.ApprovalPercentage, cfg.Moderation.ApprovalPercentage)
	assert.Equal(t, filepath.Join(dir, "journal"), cfg.Journal.Path)
	assert.Equal(t, extension.JournalPebble, cfg.Journal.Driver)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFESS_TREASURY", "0x00000000000000000000000000000000000000ff")
	t.Setenv("CONFESS_ACCESS_PRICE", "2500000")
	t.Setenv("CONFESS_ACCESS_DURATION", "1h")
	t.Setenv("CONFESS_VOTE_THRESHOLD", "7")

	cfg, err := loadConfig(writeConfig(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000ff", cfg.Treasury)
	assert.Equal(t, int64(2_500_000), cfg.AccessPrice)
	assert.Equal(t, time.Hour, cfg.AccessDuration)
	assert.Equal(t, int64(7), cfg.Moderation.VoteThreshold)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	def := extension.DefaultConfig()
	assert.Equal(t, def.AccessPrice, cfg.AccessPrice)
	assert.Equal(t, def.AccessDuration, cfg.AccessDuration)
	assert.Equal(t, "confess-journal", cfg.Journal.Path)
}

func TestLoadConfigRejectsOtherJournalDrivers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "confess.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal:\n  driver: postgres\n"), 0o600))

	_, err := loadConfig(path)
	assert.ErrorContains(t, err, `journal driver "postgres"`)

	require.NoError(t, os.WriteFile(path, []byte("journal:\n  driver: pebble\n"), 0o600))
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, extension.JournalPebble, cfg.Journal.Driver)
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	env := map[string]string{"CONFESS_ACCESS_PRICE": "lots"}
	var cfg extension.Config
	err := applyEnv(&cfg, func(k string) string { return env[k] })
	assert.ErrorContains(t, err, "CONFESS_ACCESS_PRICE")

	env = map[string]string{"CONFESS_ACCESS_DURATION": "forever"}
	err = applyEnv(&cfg, func(k string) string { return env[k] })
	assert.ErrorContains(t, err, "CONFESS_ACCESS_DURATION")
}

// seedJournal runs a short session against a Pebble journal in dir.
func seedJournal(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()

	j, err := journalpebble.Open(filepath.Join(dir, "journal"))
	require.NoError(t, err)

	tok := payment.NewMemoryToken(types.MustAddress(token))
	eng, err := confess.New(memory.New(), tok, types.MustAddress(owner), types.MustAddress(treasury),
		confess.WithJournal(j),
		confess.WithAccessDuration(48*time.Hour),
	)
	require.NoError(t, err)
	require.NoError(t, eng.Start(ctx))

	member := types.MustAddress("0x00000000000000000000000000000000000000b1")
	tok.Mint(member, types.WholeUSDC(5))
	require.NoError(t, tok.Approve(ctx, member, types.MustAddress(treasury), types.WholeUSDC(5)))
	_, err = eng.PurchaseAccess(ctx, member)
	require.NoError(t, err)
	_, err = eng.PostConfession(ctx, member, content.CategorySecrets, types.HashContent("hello"), 5)
	require.NoError(t, err)

	require.NoError(t, eng.Stop())
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestCommandsReplayJournal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	seedJournal(t, dir)

	assert.Equal(t, "ok: replayed 2 entries\n", run(t, "--config", cfgPath, "journal", "verify"))

	var stats struct {
		Stats struct {
			TotalConfessions int64 `json:"total_confessions"`
			TotalMembers     int64 `json:"total_members"`
		} `json:"stats"`
		LastSeq uint64 `json:"last_seq"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "--config", cfgPath, "--json", "stats")), &stats))
	assert.Equal(t, int64(1), stats.Stats.TotalConfessions)
	assert.Equal(t, int64(1), stats.Stats.TotalMembers)
	assert.Equal(t, uint64(2), stats.LastSeq)

	list := run(t, "--config", cfgPath, "--json=false", "journal", "list")
	assert.Contains(t, list, confess.KindPurchaseAccess)
	assert.Contains(t, list, confess.KindPostConfession)
}
