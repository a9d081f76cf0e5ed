package access

import (
	"context"
	"time"

	"github.com/xraph/confess/types"
)

type Store interface {
	GetMember(ctx context.Context, addr types.Address) (*Member, error)
	PutMember(ctx context.Context, m *Member) error
	// CountActiveMembers returns how many members are active at now.
	CountActiveMembers(ctx context.Context, now time.Time) (int64, error)
}
