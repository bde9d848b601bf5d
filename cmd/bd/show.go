package main

import (
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "show one issue, resolving a short prefix if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		issue, err := st.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		out.Line("%s  %s", issue.ID, issue.Title)
		out.Line("  status: %s  priority: %d  type: %s", issue.Status, issue.Priority, issue.IssueType)
		if issue.Description != "" {
			out.Line("  %s", issue.Description)
		}
		out.Line("  created %s", output.Relative(issue.CreatedAt))
		return out.Emit(issue)
	},
}
