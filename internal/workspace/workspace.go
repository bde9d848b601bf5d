// Package workspace locates a repository's .beads/ directory: the
// BEADS_DIR environment variable takes precedence, otherwise the current
// directory and its ancestors are searched, the same way a VCS root is
// discovered.
package workspace

import (
	"os"
	"path/filepath"
)

// DirName is the fixed name of the persistent layout directory.
const DirName = ".beads"

// DBFile, JSONLFile, ManifestFile, and ConfigFile are the canonical
// filenames inside a .beads directory.
const (
	DBFile       = "beads.db"
	JSONLFile    = "issues.jsonl"
	ManifestFile = "issues.manifest.json"
	ConfigFile   = "config.yaml"
	LockFile     = "beads.lock"
)

// Find returns the absolute path of the nearest .beads directory, walking
// up from the current working directory. It returns "" if none is found.
// BEADS_DIR, when set to an existing directory, always wins.
func Find() string {
	if envDir := os.Getenv("BEADS_DIR"); envDir != "" {
		if abs, err := filepath.Abs(envDir); err == nil {
			if info, err := os.Stat(abs); err == nil && info.IsDir() {
				return abs
			}
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for dir := cwd; ; {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// DBPath, JSONLPath, ManifestPath, ConfigPath, and LockPath join the
// given .beads directory with each canonical filename.
func DBPath(beadsDir string) string       { return filepath.Join(beadsDir, DBFile) }
func JSONLPath(beadsDir string) string    { return filepath.Join(beadsDir, JSONLFile) }
func ManifestPath(beadsDir string) string { return filepath.Join(beadsDir, ManifestFile) }
func ConfigPath(beadsDir string) string   { return filepath.Join(beadsDir, ConfigFile) }
func LockPath(beadsDir string) string     { return filepath.Join(beadsDir, LockFile) }
