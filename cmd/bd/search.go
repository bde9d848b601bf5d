package main

import "github.com/spf13/cobra"

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "search issue titles and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := st.Search(cmd.Context(), args[0], searchLimit)
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
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results, 0 for unlimited")
}
