package main

import (
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/store"
)

var (
	readySort  string
	readyLabel string
	readyLimit int
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "list unblocked, unpinned work",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.WorkFilter{
			SortPolicy: store.SortPolicy(readySort),
			Limit:      readyLimit,
		}
		if readyLabel != "" {
			f.Labels = []string{readyLabel}
		}

		issues, err := st.GetReadyWork(cmd.Context(), f)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			out.Line("%s  p%d  %s", issue.ID, issue.Priority, issue.Title)
		}
		return out.Emit(issues)
	},
}

func init() {
	readyCmd.Flags().StringVar(&readySort, "sort", string(store.SortPolicyPriorityThenCreated), "sort policy: priority_then_created, recent_first, or priority_then_recent")
	readyCmd.Flags().StringVar(&readyLabel, "label", "", "filter by label")
	readyCmd.Flags().IntVar(&readyLimit, "limit", 0, "maximum number of results, 0 for unlimited")
}
