// Package config merges .beads/config.yaml, BEADS_* environment
// variables, and CLI flags via viper. A small set of "bootstrap" keys
// — the ones a process needs before it can even open the store — are
// read straight from config.yaml instead of living in the database, so
// they're available before Open() runs.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// BootstrapKeys are read before the store opens and therefore never
// live in the database `config` table, only in config.yaml/env/flags.
var BootstrapKeys = map[string]bool{
	"db":              true,
	"actor":           true,
	"flush-debounce":  true,
	"color":           true,
	"lock-timeout":    true,
	"issue-prefix":    true,
}

// Config is the resolved bootstrap configuration for one .beads
// directory.
type Config struct {
	// DBPath is the path to the sqlite database file.
	DBPath string
	// IssuePrefix is prepended to every generated issue ID.
	IssuePrefix string
	// Actor identifies who CLI-driven mutations are attributed to.
	Actor string
	// FlushDebounce holds the flush-debounce setting. Nothing in this
	// module reads it: there is no automatic export, only `bd sync`.
	FlushDebounce time.Duration
	// Color enables ANSI color in CLI output, subject to NO_COLOR.
	Color bool
	// LockTimeout bounds how long a mutating command waits for the
	// advisory lock before giving up.
	LockTimeout time.Duration
}

// defaults mirror the teacher's own documented defaults for these keys.
const (
	defaultFlushDebounce = 2 * time.Second
	defaultLockTimeout   = 10 * time.Second
	defaultIssuePrefix   = "bd"
)

// Load merges beadsDir/config.yaml, BEADS_* environment variables, and
// flagOverrides (already-parsed CLI flags, highest precedence), and
// returns the resolved bootstrap Config.
func Load(beadsDir string, flagOverrides map[string]any) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(filepath.Join(beadsDir, "config.yaml"))

	v.SetEnvPrefix("BEADS")
	v.AutomaticEnv()

	v.SetDefault("db", filepath.Join(beadsDir, "beads.db"))
	v.SetDefault("issue-prefix", defaultIssuePrefix)
	v.SetDefault("flush-debounce", defaultFlushDebounce)
	v.SetDefault("lock-timeout", defaultLockTimeout)
	v.SetDefault("color", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	for key, val := range flagOverrides {
		v.Set(key, val)
	}

	return &Config{
		DBPath:        v.GetString("db"),
		IssuePrefix:   v.GetString("issue-prefix"),
		Actor:         v.GetString("actor"),
		FlushDebounce: v.GetDuration("flush-debounce"),
		Color:         v.GetBool("color"),
		LockTimeout:   v.GetDuration("lock-timeout"),
	}, nil
}

// IsBootstrapKey reports whether key must live in config.yaml rather
// than the database `config` table.
func IsBootstrapKey(key string) bool {
	return BootstrapKeys[key]
}
