// Package stats holds the platform's running counters. They are updated in
// the same transaction as the mutation they count and never recomputed by
// scanning.
package stats

import "github.com/xraph/confess/content"

type Counters struct {
	TotalConfessions  int64                        `json:"total_confessions"`
	TotalComments     int64                        `json:"total_comments"`
	TotalReactions    int64                        `json:"total_reactions"`
	TotalMembers      int64                        `json:"total_members"`
	TotalReports      int64                        `json:"total_reports"`
	ResolvedReports   int64                        `json:"resolved_reports"`
	HiddenConfessions int64                        `json:"hidden_confessions"`
	HiddenComments    int64                        `json:"hidden_comments"`
	ByCategory        [content.NumCategories]int64 `json:"by_category"`
}

// Global is the public statistics tuple.
type Global struct {
	TotalConfessions int64 `json:"total_confessions"`
	TotalComments    int64 `json:"total_comments"`
	TotalReactions   int64 `json:"total_reactions"`
	TotalMembers     int64 `json:"total_members"`
	ActiveMembers    int64 `json:"active_members"`
	TotalReports     int64 `json:"total_reports"`
	ResolvedReports  int64 `json:"resolved_reports"`
}

// Global combines the counters with the live active member count.
func (c Counters) Global(activeMembers int64) Global {
	return Global{
		TotalConfessions: c.TotalConfessions,
		TotalComments:    c.TotalComments,
		TotalReactions:   c.TotalReactions,
		TotalMembers:     c.TotalMembers,
		ActiveMembers:    activeMembers,
		TotalReports:     c.TotalReports,
		ResolvedReports:  c.ResolvedReports,
	}
}

// Hidden counts content taken down by moderation, by vote or by the owner.
type Hidden struct {
	Confessions int64 `json:"confessions"`
	Comments    int64 `json:"comments"`
}

// Hidden returns the moderation takedown counts.
func (c Counters) Hidden() Hidden {
	return Hidden{Confessions: c.HiddenConfessions, Comments: c.HiddenComments}
}

// PendingReports returns the number of reports still awaiting resolution.
func (c Counters) PendingReports() int64 { return c.TotalReports - c.ResolvedReports }
