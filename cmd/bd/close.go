package main

import "github.com/spf13/cobra"

var closeReason string

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "close an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		issue, err := st.Close(cmd.Context(), id, closeReason, sessionID)
		if err != nil {
			return err
		}
		out.Line("closed %s", issue.ID)
		return out.Emit(issue)
	},
}

func init() {
	closeCmd.Flags().StringVar(&closeReason, "reason", "", "close reason")
}
