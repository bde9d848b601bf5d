package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLocatesBeadsDirInAncestor(t *testing.T) {
	root := t.TempDir()
	beadsDir := filepath.Join(root, DirName)
	if err := os.Mkdir(beadsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	restore := chdir(t, nested)
	defer restore()

	got := Find()
	want, _ := filepath.EvalSymlinks(beadsDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestFindReturnsEmptyWhenNoneExists(t *testing.T) {
	root := t.TempDir()
	restore := chdir(t, root)
	defer restore()

	if got := Find(); got != "" {
		t.Errorf("Find() = %q, want empty", got)
	}
}

func TestFindPrefersBeadsDirEnvVar(t *testing.T) {
	root := t.TempDir()
	beadsDir := filepath.Join(root, DirName)
	if err := os.Mkdir(beadsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	elsewhere := t.TempDir()
	restore := chdir(t, elsewhere)
	defer restore()

	t.Setenv("BEADS_DIR", beadsDir)

	got := Find()
	want, _ := filepath.EvalSymlinks(beadsDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestPathHelpersJoinCanonicalNames(t *testing.T) {
	dir := "/tmp/example/.beads"
	if DBPath(dir) != filepath.Join(dir, "beads.db") {
		t.Errorf("DBPath = %q", DBPath(dir))
	}
	if JSONLPath(dir) != filepath.Join(dir, "issues.jsonl") {
		t.Errorf("JSONLPath = %q", JSONLPath(dir))
	}
	if ManifestPath(dir) != filepath.Join(dir, "issues.manifest.json") {
		t.Errorf("ManifestPath = %q", ManifestPath(dir))
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return func() { _ = os.Chdir(old) }
}
