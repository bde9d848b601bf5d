package main

import "github.com/spf13/cobra"

var deleteReason string

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "soft-delete an issue, converting it to a tombstone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := st.Delete(cmd.Context(), id, resolveActor(), deleteReason); err != nil {
			return err
		}
		out.Line("deleted %s", id)
		return out.Emit(map[string]string{"id": id, "status": "tombstone"})
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteReason, "reason", "", "delete reason")
}
