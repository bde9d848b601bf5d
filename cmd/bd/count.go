package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/store"
)

var countBy string

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "count issues, optionally grouped by status, priority, or type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := st.List(cmd.Context(), store.ListFilter{})
		if err != nil {
			return err
		}

		if countBy == "" {
			out.Line("%d", len(issues))
			return out.Emit(map[string]int{"total": len(issues)})
		}

		counts := map[string]int{}
		for _, issue := range issues {
			var key string
			switch countBy {
			case "status":
				key = string(issue.Status)
			case "priority":
				key = fmt.Sprintf("%d", issue.Priority)
			case "type":
				key = string(issue.IssueType)
			default:
				return fmt.Errorf("invalid --by %q (want status, priority, or type)", countBy)
			}
			counts[key]++
		}
		for key, n := range counts {
			out.Line("%-12s %d", key, n)
		}
		return out.Emit(counts)
	},
}

func init() {
	countCmd.Flags().StringVar(&countBy, "by", "", "group counts by status, priority, or type")
}
