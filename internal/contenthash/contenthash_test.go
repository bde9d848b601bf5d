package contenthash

import (
	"testing"
	"time"

	"github.com/beads-core/beads/internal/types"
)

func sampleIssue() *types.Issue {
	return &types.Issue{
		ID:        "bd-abc123",
		Title:     "Fix bug",
		Status:    types.StatusOpen,
		Priority:  1,
		IssueType: types.TypeBug,
		Labels:    []string{"b", "a"},
		Dependencies: []*types.Dependency{
			{DependsOnID: "bd-zzz", Type: types.DepBlocks},
		},
	}
}

func TestOfIsDeterministic(t *testing.T) {
	i := sampleIssue()
	if Of(i) != Of(i) {
		t.Fatalf("expected hash to be deterministic")
	}
}

func TestOfIgnoresLabelOrder(t *testing.T) {
	a := sampleIssue()
	b := sampleIssue()
	b.Labels = []string{"a", "b"}
	if Of(a) != Of(b) {
		t.Fatalf("expected label order not to affect hash")
	}
}

func TestOfIgnoresBookkeepingTimestamps(t *testing.T) {
	a := sampleIssue()
	b := sampleIssue()
	now, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	b.CreatedAt = now
	b.UpdatedAt = now
	if Of(a) != Of(b) {
		t.Fatalf("expected created_at/updated_at to be excluded from the hash")
	}
}

func TestOfChangesWithTitle(t *testing.T) {
	a := sampleIssue()
	b := sampleIssue()
	b.Title = "Different title"
	if Of(a) == Of(b) {
		t.Fatalf("expected different titles to hash differently")
	}
}

func TestChanged(t *testing.T) {
	i := sampleIssue()
	if !Changed(i, "") {
		t.Fatalf("expected empty previous hash to count as changed")
	}
	if Changed(i, Of(i)) {
		t.Fatalf("expected identical hash to count as unchanged")
	}
}
