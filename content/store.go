package content

import "context"

type Store interface {
	// GetConfession returns ErrConfessionNotFound for unknown ids.
	GetConfession(ctx context.Context, confessionID uint64) (*Confession, error)
	PutConfession(ctx context.Context, c *Confession) error
	// ListConfessionsByCategory returns confession ids of one category in insertion order.
	ListConfessionsByCategory(ctx context.Context, cat Category, opts ListOpts) ([]uint64, error)

	GetComment(ctx context.Context, commentID uint64) (*Comment, error)
	PutComment(ctx context.Context, c *Comment) error
	// ListComments returns the comment ids of a confession in insertion order.
	ListComments(ctx context.Context, confessionID uint64, opts ListOpts) ([]uint64, error)
}
