package reaction

import "context"

type Store interface {
	// GetReaction returns ErrNoReaction when the actor holds no reaction on the subject.
	GetReaction(ctx context.Context, key Key) (*Reaction, error)
	PutReaction(ctx context.Context, r *Reaction) error
	DeleteReaction(ctx context.Context, key Key) error

	// GetReactionCounts returns zero counts for subjects nobody reacted to.
	GetReactionCounts(ctx context.Context, subject Subject) (Counts, error)
	PutReactionCounts(ctx context.Context, subject Subject, counts Counts) error
}
