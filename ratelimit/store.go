package ratelimit

import "context"

// Store defines the persistence operations for rate-limit state.
type Store interface {
	// GetRateLimit returns the state for key. A missing record yields a zero
	// State carrying the key, never an error.
	GetRateLimit(ctx context.Context, key Key) (*State, error)
	PutRateLimit(ctx context.Context, s *State) error
}
