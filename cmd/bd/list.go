package main

import (
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/store"
	"github.com/beads-core/beads/internal/types"
)

var (
	listStatus        string
	listType          string
	listLabel         string
	listIncludeClosed bool
	listLimit         int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list issues matching a filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.ListFilter{
			IssueType: types.IssueType(listType),
			Label:     listLabel,
			Limit:     listLimit,
		}
		if listStatus != "" {
			f.Status = types.Status(listStatus)
		}

		issues, err := st.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		if !listIncludeClosed && f.Status == "" {
			issues = filterOutClosed(issues)
		}

		for _, issue := range issues {
			out.Line("%s  [%s]  %s", issue.ID, issue.Status, issue.Title)
		}
		return out.Emit(issues)
	},
}

func filterOutClosed(issues []*types.Issue) []*types.Issue {
	kept := issues[:0]
	for _, issue := range issues {
		if !issue.Status.IsTerminal() {
			kept = append(kept, issue)
		}
	}
	return kept
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.Flags().StringVar(&listType, "type", "", "filter by issue type")
	listCmd.Flags().StringVar(&listLabel, "label", "", "filter by label")
	listCmd.Flags().BoolVar(&listIncludeClosed, "include-closed", false, "include closed and tombstoned issues")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of results, 0 for unlimited")
}
