package confess

import (
	"context"

	"github.com/xraph/confess/stats"
	"github.com/xraph/confess/store"
)

// GetGlobalStats returns the platform totals. ActiveMembers is counted at
// the time of the call, so it reflects expirations without any write.
func (e *Engine) GetGlobalStats(ctx context.Context) (stats.Global, error) {
	var g stats.Global
	err := e.view(ctx, func(tx store.Tx) error {
		c, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		active, err := tx.CountActiveMembers(ctx, e.now())
		if err != nil {
			return err
		}
		g = c.Global(active)
		return nil
	})
	return g, err
}

// GetPendingReportCount returns how many reports await resolution.
func (e *Engine) GetPendingReportCount(ctx context.Context) (int64, error) {
	c, err := e.counters(ctx)
	if err != nil {
		return 0, err
	}
	return c.PendingReports(), nil
}

// GetHiddenContentCounts returns how many confessions and comments
// moderation has hidden.
func (e *Engine) GetHiddenContentCounts(ctx context.Context) (stats.Hidden, error) {
	c, err := e.counters(ctx)
	if err != nil {
		return stats.Hidden{}, err
	}
	return c.Hidden(), nil
}

func (e *Engine) counters(ctx context.Context) (*stats.Counters, error) {
	var c *stats.Counters
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		c, err = tx.GetCounters(ctx)
		return err
	})
	return c, err
}
