package stats

import "context"

type Store interface {
	// GetCounters returns zero counters on an empty store.
	GetCounters(ctx context.Context) (*Counters, error)
	PutCounters(ctx context.Context, c *Counters) error
}
