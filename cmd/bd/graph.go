package main

import "github.com/spf13/cobra"

var graphCmd = &cobra.Command{
	Use:   "graph <id>",
	Short: "print the transitive closure of an issue's dependency edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		g, err := st.Graph(cmd.Context(), id)
		if err != nil {
			return err
		}
		for _, e := range g.Edges {
			out.Line("%s --%s--> %s", e.From, e.Type, e.To)
		}
		return out.Emit(g)
	},
}
