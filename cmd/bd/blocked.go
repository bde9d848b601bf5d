package main

import "github.com/spf13/cobra"

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "list issues currently blocked by an open dependency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		blocked, err := st.GetBlockedIssues(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range blocked {
			out.Line("%s  blocked by %d: %v  %s", b.Issue.ID, b.BlockedByCount, b.BlockedBy, b.Issue.Title)
		}
		return out.Emit(blocked)
	},
}
