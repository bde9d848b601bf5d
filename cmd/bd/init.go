package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/beads-core/beads/internal/config"
	"github.com/beads-core/beads/internal/store"
	"github.com/beads-core/beads/internal/workspace"
)

var initIssuePrefix string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create the .beads/ directory, its schema, and a default config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir := workspace.Find()
		if dir == "" {
			dir = cwd + string(os.PathSeparator) + workspace.DirName
		}

		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}

		prefix := initIssuePrefix
		if prefix == "" {
			prefix = "bd"
		}
		if _, err := os.Stat(workspace.ConfigPath(dir)); os.IsNotExist(err) {
			body, err := defaultConfigYAML(prefix)
			if err != nil {
				return fmt.Errorf("marshal config.yaml: %w", err)
			}
			if err := os.WriteFile(workspace.ConfigPath(dir), body, 0o600); err != nil {
				return fmt.Errorf("write config.yaml: %w", err)
			}
		}

		if _, err := os.Stat(workspace.JSONLPath(dir)); os.IsNotExist(err) {
			if err := os.WriteFile(workspace.JSONLPath(dir), nil, 0o600); err != nil {
				return fmt.Errorf("write issues.jsonl: %w", err)
			}
		}

		loaded, err := config.Load(dir, nil)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		s, err := store.Open(loaded.DBPath, prefix)
		if err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if _, err := s.ExportIDs(ctx, store.ExportFilter{}); err != nil {
			return fmt.Errorf("verify schema: %w", err)
		}

		out.Line("initialized .beads repository at %s", dir)
		return out.Emit(map[string]string{"beads_dir": dir, "db": loaded.DBPath})
	},
}

func init() {
	initCmd.Flags().StringVar(&initIssuePrefix, "prefix", "bd", "issue ID prefix")
}

// defaultConfigYAMLDoc mirrors config.Config's bootstrap keys so a fresh
// config.yaml round-trips through config.Load without relying on its
// defaults.
type defaultConfigYAMLDoc struct {
	IssuePrefix   string `yaml:"issue-prefix"`
	FlushDebounce string `yaml:"flush-debounce"`
	LockTimeout   string `yaml:"lock-timeout"`
	Color         bool   `yaml:"color"`
}

func defaultConfigYAML(prefix string) ([]byte, error) {
	body, err := yaml.Marshal(defaultConfigYAMLDoc{
		IssuePrefix:   prefix,
		FlushDebounce: "2s",
		LockTimeout:   "10s",
		Color:         true,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte("# beads configuration\n"), body...), nil
}
