// Command bd is the CLI boundary over the issue store: schema
// bootstrap, issue CRUD, the ready/blocked query engine, and the JSONL
// sync engine, each exposed as one cobra subcommand per spec's command
// table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/config"
	"github.com/beads-core/beads/internal/lockfile"
	"github.com/beads-core/beads/internal/logging"
	"github.com/beads-core/beads/internal/output"
	"github.com/beads-core/beads/internal/store"
	"github.com/beads-core/beads/internal/workspace"
)

var (
	dbFlag          string
	actorFlag       string
	outputFlag      string
	noColorFlag     bool
	verboseFlag     bool
	lockTimeoutFlag time.Duration

	beadsDir  string
	cfg       *config.Config
	st        *store.Store
	out       *output.Writer
	lg        *slog.Logger
	appLock   *lockfile.Lock
	sessionID string
)

// commandsWithoutStore may run before a .beads directory, or its store,
// exists.
var commandsWithoutStore = map[string]bool{
	"init": true,
	"help": true,
}

var rootCmd = &cobra.Command{
	Use:           "bd",
	Short:         "bd - dependency-aware issue tracker",
	Long:          "Issues chained together like beads: a local-first issue tracker with first-class dependency support.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode := output.ModePlain
		switch outputFlag {
		case "json":
			mode = output.ModeJSON
		case "jsonl":
			mode = output.ModeJSONL
		case "", "plain":
			mode = output.ModePlain
		default:
			return fmt.Errorf("invalid --output %q (want plain, json, or jsonl)", outputFlag)
		}
		out = output.New(os.Stdout, mode, !noColorFlag)
		lg, _ = logging.New(logging.Options{Verbose: verboseFlag, Stderr: true})
		sessionID = uuid.NewString()

		if commandsWithoutStore[cmd.Name()] {
			return nil
		}

		beadsDir = workspace.Find()
		if beadsDir == "" {
			return fmt.Errorf("no .beads directory found; run 'bd init' first or set BEADS_DIR")
		}

		overrides := map[string]any{}
		if dbFlag != "" {
			overrides["db"] = dbFlag
		}
		if actorFlag != "" {
			overrides["actor"] = actorFlag
		}
		if cmd.Flags().Changed("lock-timeout") {
			overrides["lock-timeout"] = lockTimeoutFlag
		}
		if cmd.Flags().Changed("no-color") {
			overrides["color"] = !noColorFlag
		}

		var err error
		cfg, err = config.Load(beadsDir, overrides)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		appLock = lockfile.New(workspace.LockPath(beadsDir))
		if err := appLock.Acquire(context.Background(), cfg.LockTimeout); err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}

		st, err = store.Open(cfg.DBPath, cfg.IssuePrefix)
		if err != nil {
			_ = appLock.Release()
			return fmt.Errorf("open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st != nil {
			_ = st.Close()
		}
		if appLock != nil {
			_ = appLock.Release()
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "database path (default: auto-discover .beads/beads.db)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "actor name for the audit trail (default: $BEADS_ACTOR or $USER)")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "plain", "output mode: plain, json, or jsonl")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().DurationVar(&lockTimeoutFlag, "lock-timeout", lockfile.DefaultTimeout, "how long to wait for the advisory write lock")

	rootCmd.AddCommand(
		initCmd,
		createCmd,
		updateCmd,
		closeCmd,
		deleteCmd,
		showCmd,
		listCmd,
		searchCmd,
		readyCmd,
		blockedCmd,
		countCmd,
		staleCmd,
		depCmd,
		graphCmd,
		orphansCmd,
		syncCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		if out != nil {
			_ = out.EmitError(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// resolveActor returns the actor flag, falling back to the loaded config
// and then the OS user, matching spec.md's audit-trail default chain.
func resolveActor() string {
	if actorFlag != "" {
		return actorFlag
	}
	if cfg != nil && cfg.Actor != "" {
		return cfg.Actor
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
