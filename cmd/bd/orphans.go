package main

import "github.com/spf13/cobra"

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "list issues with no dependency edges in either direction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := st.Orphans(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			out.Line("%s", id)
		}
		return out.Emit(ids)
	},
}
