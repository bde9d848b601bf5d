package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/sync"
	"github.com/beads-core/beads/internal/workspace"
)

var (
	syncFlushOnly  bool
	syncImportOnly bool
	syncForce      bool
	syncOrphans    string
	syncConflict   string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "export dirty issues to issues.jsonl and import any pending changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orphanPolicy := sync.OrphanPolicy(syncOrphans)
		if !orphanPolicy.IsValid() {
			return fmt.Errorf("invalid --orphans %q (want keep, drop, or strict)", syncOrphans)
		}
		conflictPolicy := sync.ConflictPolicy(syncConflict)
		if !conflictPolicy.IsValid() {
			return fmt.Errorf("invalid --conflict %q (want prefer_incoming, prefer_existing, or newest_wins)", syncConflict)
		}

		jsonlPath := workspace.JSONLPath(beadsDir)

		if !syncImportOnly {
			result, err := sync.ExportToFile(cmd.Context(), st, jsonlPath, sync.ExportOptions{Full: syncForce})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			out.Line("exported %d issue(s) to %s", result.Count, jsonlPath)
		}

		if syncFlushOnly {
			return nil
		}

		result, err := sync.ImportFile(cmd.Context(), st, jsonlPath, conflictPolicy, orphanPolicy)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		out.Line("imported: %d inserted, %d updated, %d skipped", result.Inserted, result.Updated, result.Skipped)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: line %d: %s\n", w.Line, w.Message)
		}
		return out.Emit(result)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncFlushOnly, "flush-only", false, "export dirty issues only, skip import")
	syncCmd.Flags().BoolVar(&syncImportOnly, "import-only", false, "import only, skip export")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "export every issue, not just the dirty set")
	syncCmd.Flags().StringVar(&syncOrphans, "orphans", string(sync.OrphanKeep), "orphan edge policy: keep, drop, or strict")
	syncCmd.Flags().StringVar(&syncConflict, "conflict", string(sync.PolicyNewestWins), "conflict policy: prefer_incoming, prefer_existing, or newest_wins")
}
