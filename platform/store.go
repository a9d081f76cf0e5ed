package platform

import "context"

type Store interface {
	// GetPlatform returns ErrNotFound before the platform is initialised.
	GetPlatform(ctx context.Context) (*State, error)
	PutPlatform(ctx context.Context, s *State) error
}
