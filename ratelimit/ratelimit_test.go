package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/types"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCheckZeroStateAlwaysPasses(t *testing.T) {
	for action, p := range ratelimit.DefaultPolicies() {
		t.Run(string(action), func(t *testing.T) {
			assert.NoError(t, p.Check(ratelimit.State{}, t0))
		})
	}
}

func TestCooldown(t *testing.T) {
	p := ratelimit.Policy{Cooldown: 5 * time.Minute}
	s := p.Record(ratelimit.State{}, t0)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"immediately", t0, ratelimit.ErrCooldownNotElapsed},
		{"one second short", t0.Add(5*time.Minute - time.Second), ratelimit.ErrCooldownNotElapsed},
		{"exactly elapsed", t0.Add(5 * time.Minute), nil},
		{"well after", t0.Add(time.Hour), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(s, tt.at)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDailyLimit(t *testing.T) {
	p := ratelimit.Policy{Cooldown: time.Minute, DailyLimit: 3, Window: 24 * time.Hour}
	s := ratelimit.State{Identity: types.BytesToAddress([]byte{1}), Action: ratelimit.ActionConfession}

	now := t0
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Check(s, now), "action %d", i+1)
		s = p.Record(s, now)
		now = now.Add(time.Minute)
	}

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, t0, s.WindowStart)
	assert.ErrorIs(t, p.Check(s, now), ratelimit.ErrDailyLimitReached)

	// The window is rolling from its first action, not a calendar day.
	assert.ErrorIs(t, p.Check(s, t0.Add(24*time.Hour-time.Second)), ratelimit.ErrDailyLimitReached)
	reset := t0.Add(24 * time.Hour)
	require.NoError(t, p.Check(s, reset))

	s = p.Record(s, reset)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, reset, s.WindowStart)
	assert.Equal(t, reset, s.LastActionAt)
}

func TestUnlimitedDaily(t *testing.T) {
	p := ratelimit.DefaultPolicies()[ratelimit.ActionReport]
	s := ratelimit.State{}
	now := t0
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Check(s, now))
		s = p.Record(s, now)
		now = now.Add(time.Hour)
	}
	// Windows restarted at +24h and +48h; the last one holds two actions.
	assert.Equal(t, t0.Add(48*time.Hour), s.WindowStart)
	assert.Equal(t, 2, p.CountAt(s, t0.Add(49*time.Hour)))
}

func TestNextAllowedAt(t *testing.T) {
	p := ratelimit.Policy{Cooldown: time.Minute}
	assert.True(t, p.NextAllowedAt(ratelimit.State{}).IsZero())

	s := p.Record(ratelimit.State{}, t0)
	assert.Equal(t, t0.Add(time.Minute), p.NextAllowedAt(s))
}

func TestActionValid(t *testing.T) {
	assert.True(t, ratelimit.ActionComment.Valid())
	assert.False(t, ratelimit.Action("vote").Valid())
}
