package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/beads-core/beads/internal/store"
	"github.com/beads-core/beads/internal/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir()+"/test.db", "bd")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})
	return s
}

func createIssue(t *testing.T, s *store.Store, title string) *types.Issue {
	t.Helper()
	issue, err := s.Create(context.Background(), &types.Issue{Title: title})
	if err != nil {
		t.Fatalf("create issue %q: %v", title, err)
	}
	return issue
}

func encodeIssueLine(t *testing.T, issue *types.Issue) []byte {
	t.Helper()
	data, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("marshal issue %q: %v", issue.ID, err)
	}
	return append(data, '\n')
}

func TestExportRoundTripsThroughImportIntoFreshStore(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	a := createIssue(t, src, "first issue")
	b := createIssue(t, src, "second issue")
	if err := src.AddDependency(ctx, b.ID, a.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add dependency: %v", err)
	}

	var buf bytes.Buffer
	result, err := Export(ctx, src, &buf, ExportOptions{Full: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("exported count = %d, want 2", result.Count)
	}

	dst := newTestStore(t)
	importResult, err := Import(ctx, dst, bytes.NewReader(buf.Bytes()), PolicyPreferIncoming, OrphanKeep)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if importResult.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", importResult.Inserted)
	}

	got, err := dst.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get imported issue: %v", err)
	}
	if got.Title != "first issue" {
		t.Errorf("Title = %q, want %q", got.Title, "first issue")
	}

	gotB, err := dst.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get imported dependent issue: %v", err)
	}
	if len(gotB.Dependencies) != 1 || gotB.Dependencies[0].DependsOnID != a.ID {
		t.Errorf("dependencies = %v, want one edge to %q", gotB.Dependencies, a.ID)
	}
}

func TestImportAbortsOnConflictMarker(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	data := "{\"id\":\"bd-1\",\"title\":\"ok\",\"status\":\"open\",\"issue_type\":\"task\"}\n<<<<<<< HEAD\n"
	_, err := Import(ctx, s, strings.NewReader(data), PolicyPreferIncoming, OrphanKeep)
	if err == nil {
		t.Fatal("expected an error from an unresolved conflict marker")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want it to name line 2", err)
	}
}

func TestImportAbortsOnInvalidJSON(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := Import(ctx, s, strings.NewReader("not json\n"), PolicyPreferIncoming, OrphanKeep)
	if err == nil {
		t.Fatal("expected an error from invalid JSON")
	}
}

func TestImportOrphanPolicyStrictAbortsOnUnresolvedEdge(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	issue := createIssue(t, src, "has an orphan dependency")
	issue.Dependencies = []*types.Dependency{{IssueID: issue.ID, DependsOnID: "bd-does-not-exist", Type: types.DepRelated}}

	dst := newTestStore(t)
	_, err := Import(ctx, dst, bytes.NewReader(encodeIssueLine(t, issue)), PolicyPreferIncoming, OrphanStrict)
	if err == nil {
		t.Fatal("expected strict orphan policy to abort the import")
	}
}

func TestImportOrphanPolicyDropSkipsEdgeWithWarning(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	issue := createIssue(t, src, "has an orphan dependency")
	issue.Dependencies = []*types.Dependency{{IssueID: issue.ID, DependsOnID: "bd-does-not-exist", Type: types.DepRelated}}

	dst := newTestStore(t)
	result, err := Import(ctx, dst, bytes.NewReader(encodeIssueLine(t, issue)), PolicyPreferIncoming, OrphanDrop)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", result.Warnings)
	}

	got, err := dst.Get(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get imported issue: %v", err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("expected the orphan edge to be dropped, got %v", got.Dependencies)
	}
}

func TestImportConflictPolicyPreferExistingKeepsLocalVersion(t *testing.T) {
	ctx := context.Background()
	dst := newTestStore(t)
	local := createIssue(t, dst, "local version")

	incoming := *local
	incoming.Title = "incoming version"
	incoming.ContentHash = "different-hash"

	result, err := Import(ctx, dst, bytes.NewReader(encodeIssueLine(t, &incoming)), PolicyPreferExisting, OrphanKeep)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", result.Skipped)
	}

	got, err := dst.Get(ctx, local.ID)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got.Title != "local version" {
		t.Errorf("Title = %q, want the local title to survive", got.Title)
	}
}

func TestImportConflictPolicyNewestWinsPicksLaterUpdate(t *testing.T) {
	ctx := context.Background()
	dst := newTestStore(t)
	local := createIssue(t, dst, "local version")

	incoming := *local
	incoming.Title = "newer version"
	incoming.ContentHash = "different-hash"
	incoming.UpdatedAt = local.UpdatedAt.Add(time.Hour)

	result, err := Import(ctx, dst, bytes.NewReader(encodeIssueLine(t, &incoming)), PolicyNewestWins, OrphanKeep)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", result.Updated)
	}

	got, err := dst.Get(ctx, local.ID)
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if got.Title != "newer version" {
		t.Errorf("Title = %q, want the newer incoming title to win", got.Title)
	}
}

func TestExportToFileWritesManifestAlongside(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createIssue(t, s, "exported issue")

	dir := t.TempDir()
	path := dir + "/issues.jsonl"
	result, err := ExportToFile(ctx, s, path, ExportOptions{Full: true})
	if err != nil {
		t.Fatalf("export to file: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("Count = %d, want 1", result.Count)
	}

	if _, err := os.Stat(dir + "/issues.manifest.json"); err != nil {
		t.Fatalf("expected a manifest sidecar: %v", err)
	}
	data, err := os.ReadFile(dir + "/issues.manifest.json")
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if m.IssueCount != 1 || !m.Full {
		t.Errorf("manifest = %+v, want IssueCount=1 Full=true", m)
	}
}

func TestConflictPolicyIsValid(t *testing.T) {
	if !PolicyPreferIncoming.IsValid() || !PolicyPreferExisting.IsValid() || !PolicyNewestWins.IsValid() {
		t.Fatal("expected all three documented conflict policies to be valid")
	}
	if ConflictPolicy("bogus").IsValid() {
		t.Fatal("expected an unrecognized conflict policy to be invalid")
	}
}

func TestOrphanPolicyIsValid(t *testing.T) {
	if !OrphanKeep.IsValid() || !OrphanDrop.IsValid() || !OrphanStrict.IsValid() {
		t.Fatal("expected all three documented orphan policies to be valid")
	}
	if OrphanPolicy("bogus").IsValid() {
		t.Fatal("expected an unrecognized orphan policy to be invalid")
	}
}
