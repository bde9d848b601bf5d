package main

import (
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/types"
)

var staleDays int

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "list non-closed issues that haven't been updated recently",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := st.GetStaleIssues(cmd.Context(), staleDays, types.Status(""), 0)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			out.Line("%s  [%s]  %s", issue.ID, issue.Status, issue.Title)
		}
		return out.Emit(issues)
	},
}

func init() {
	staleCmd.Flags().IntVar(&staleDays, "days", 14, "issues not updated in this many days count as stale")
}
