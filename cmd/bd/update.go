package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/types"
)

var (
	updateStatus      string
	updatePriority    int
	updateType        string
	updateAddLabels   []string
	updateDefer       string
	updateCloseReason string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "update fields on an existing issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		issue, err := st.Update(cmd.Context(), id, func(i *types.Issue) error {
			if cmd.Flags().Changed("status") {
				i.Status = types.Status(updateStatus)
			}
			if cmd.Flags().Changed("priority") {
				i.Priority = updatePriority
			}
			if cmd.Flags().Changed("type") {
				i.IssueType = types.IssueType(updateType)
			}
			if cmd.Flags().Changed("defer") {
				when, err := time.Parse(time.RFC3339, updateDefer)
				if err != nil {
					return err
				}
				i.DeferUntil = &when
				i.Status = types.StatusDeferred
			}
			if cmd.Flags().Changed("close-reason") {
				i.CloseReason = &updateCloseReason
			}
			i.Labels = append(i.Labels, updateAddLabels...)
			return nil
		})
		if err != nil {
			return err
		}

		for _, label := range updateAddLabels {
			if err := st.AddLabel(cmd.Context(), id, label); err != nil {
				return err
			}
		}

		out.Line("updated %s", issue.ID)
		return out.Emit(issue)
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "new status")
	updateCmd.Flags().IntVar(&updatePriority, "priority", 0, "new priority, 0 (highest) to 4")
	updateCmd.Flags().StringVar(&updateType, "type", "", "new issue type")
	updateCmd.Flags().StringArrayVar(&updateAddLabels, "add-label", nil, "attach a label (repeatable)")
	updateCmd.Flags().StringVar(&updateDefer, "defer", "", "defer until this RFC3339 timestamp")
	updateCmd.Flags().StringVar(&updateCloseReason, "close-reason", "", "close reason to attach")
}
