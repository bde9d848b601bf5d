package main

import (
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/types"
)

var depType string

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "manage dependency edges between issues",
}

var depAddCmd = &cobra.Command{
	Use:   "add <id> <depends-on-id>",
	Short: "add a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dependsOn, err := st.ResolveID(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if err := st.AddDependency(cmd.Context(), id, dependsOn, types.DepType(depType), resolveActor()); err != nil {
			return err
		}
		out.Line("%s now depends on %s", id, dependsOn)
		return out.Emit(map[string]string{"issue_id": id, "depends_on_id": dependsOn, "type": depType})
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <id> <depends-on-id>",
	Short: "remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := st.ResolveID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dependsOn, err := st.ResolveID(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if err := st.RemoveDependency(cmd.Context(), id, dependsOn); err != nil {
			return err
		}
		out.Line("removed %s -> %s", id, dependsOn)
		return out.Emit(map[string]string{"issue_id": id, "depends_on_id": dependsOn})
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "list an issue's dependencies",
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
		for _, d := range issue.Dependencies {
			out.Line("%s  %s -> %s", d.Type, d.IssueID, d.DependsOnID)
		}
		return out.Emit(issue.Dependencies)
	},
}

func init() {
	depAddCmd.Flags().StringVar(&depType, "type", string(types.DepBlocks), "dependency type")
	depCmd.AddCommand(depAddCmd, depRemoveCmd, depListCmd)
}
