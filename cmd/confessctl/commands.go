package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xraph/confess"
	journalpebble "github.com/xraph/confess/journal/pebble"
	"github.com/xraph/confess/types"
)

func init() {
	rootCmd.AddCommand(statsCmd, journalCmd, confessionsCmd, reportsCmd, memberCmd)
	journalCmd.AddCommand(journalListCmd, journalVerifyCmd)

	journalListCmd.Flags().Uint64Var(&listAfter, "after", 0, "list entries after this sequence")
	journalListCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum entries to list")
	confessionsCmd.Flags().Uint64Var(&rangeStart, "start", 1, "first confession id")
	confessionsCmd.Flags().Uint64Var(&rangeCount, "count", 20, "number of confessions")
	reportsCmd.Flags().IntVar(&pageOffset, "offset", 0, "pending reports to skip")
	reportsCmd.Flags().IntVar(&pageLimit, "limit", 20, "maximum reports to list")
}

var (
	listAfter  uint64
	listLimit  int
	rangeStart uint64
	rangeCount uint64
	pageOffset int
	pageLimit  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Replay the journal and print platform statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *confess.Engine) error {
			g, err := eng.GetGlobalStats(ctx)
			if err != nil {
				return err
			}
			pending, err := eng.GetPendingReportCount(ctx)
			if err != nil {
				return err
			}
			hidden, err := eng.GetHiddenContentCounts(ctx)
			if err != nil {
				return err
			}
			p, err := eng.Platform(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, map[string]any{
					"stats":           g,
					"pending_reports": pending,
					"hidden":          hidden,
					"platform":        p,
					"last_seq":        eng.LastSeq(),
				})
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "journal entries\t%d\n", eng.LastSeq())
			fmt.Fprintf(w, "owner\t%s\n", p.Owner)
			fmt.Fprintf(w, "members\t%d (%d active)\n", g.TotalMembers, g.ActiveMembers)
			fmt.Fprintf(w, "confessions\t%d\n", g.TotalConfessions)
			fmt.Fprintf(w, "comments\t%d\n", g.TotalComments)
			fmt.Fprintf(w, "reactions\t%d\n", g.TotalReactions)
			fmt.Fprintf(w, "reports\t%d (%d resolved, %d pending)\n", g.TotalReports, g.ResolvedReports, pending)
			fmt.Fprintf(w, "hidden\t%d confessions, %d comments\n", hidden.Confessions, hidden.Comments)
			fmt.Fprintf(w, "collected\t%s\n", p.Collected)
			fmt.Fprintf(w, "withdrawn\t%s\n", p.Withdrawn)
			return w.Flush()
		})
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the command journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries without replaying them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		j, err := journalpebble.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()

		entries, err := j.List(cmd.Context(), listAfter, listLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, entries)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEQ\tAT\tKIND\tID\tREQUEST KEY")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.At.Format("2006-01-02T15:04:05Z"), e.Kind, e.ID, e.RequestKey)
		}
		return w.Flush()
	},
}

var journalVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay every entry and report whether the journal is consistent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd, func(_ context.Context, eng *confess.Engine) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ok: replayed %d entries\n", eng.LastSeq())
			return nil
		})
	},
}

var confessionsCmd = &cobra.Command{
	Use:   "confessions",
	Short: "List confessions by id range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *confess.Engine) error {
			list, err := eng.GetConfessionsByRange(ctx, rangeStart, rangeCount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, list)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tPOSTED\tHIDDEN\tREACTIONS\tCOMMENTS\tHASH")
			for _, c := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%d\t%d\t%s\n",
					c.ID, c.Category, c.Timestamp.Format("2006-01-02T15:04:05Z"), c.IsHidden,
					c.TotalReactions, c.TotalComments, c.ContentHash)
			}
			return w.Flush()
		})
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List unresolved reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *confess.Engine) error {
			list, err := eng.GetPendingReports(ctx, pageOffset, pageLimit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, list)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTARGET\tREASON\tFOR\tAGAINST\tNEEDED")
			for _, r := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
					r.ID, r.Target, r.Reason, r.VotesFor, r.VotesAgainst, r.VoteThreshold)
			}
			return w.Flush()
		})
	},
}

var memberCmd = &cobra.Command{
	Use:   "member [address]",
	Short: "Show one member's access record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := types.ParseAddress(args[0])
		if err != nil {
			return err
		}
		return withEngine(cmd, func(ctx context.Context, eng *confess.Engine) error {
			d, err := eng.GetAccessDetails(ctx, addr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, d)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "address\t%s\n", addr)
			fmt.Fprintf(w, "active\t%t\n", d.HasAccess)
			fmt.Fprintf(w, "expires\t%s\n", formatTime(d.ExpiresAt))
			fmt.Fprintf(w, "payments\t%d\n", d.TotalPayments)
			return w.Flush()
		})
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
