package moderation

import "context"

type Store interface {
	GetReport(ctx context.Context, reportID uint64) (*Report, error)
	PutReport(ctx context.Context, r *Report) error
	// ListPendingReports pages over unresolved reports in filing order.
	ListPendingReports(ctx context.Context, opts ListOpts) ([]*Report, error)

	// GetVote returns ErrNotFound when the voter has not voted on the report.
	GetVote(ctx context.Context, key VoteKey) (*Vote, error)
	PutVote(ctx context.Context, v *Vote) error
}
