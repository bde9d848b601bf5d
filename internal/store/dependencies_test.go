package store

import (
	"context"
	"testing"

	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

func createIssue(t *testing.T, s *Store, title string) *types.Issue {
	t.Helper()
	issue, err := s.Create(context.Background(), &types.Issue{Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return issue
}

func TestAddDependencyDefaultsToBlocks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Deploy the service")
	b := createIssue(t, s, "Finish the migration")

	if err := s.AddDependency(ctx, a.ID, b.ID, "", "alice"); err != nil {
		t.Fatalf("add dependency: %v", err)
	}

	fetched, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(fetched.Dependencies) != 1 || fetched.Dependencies[0].Type != types.DepBlocks {
		t.Fatalf("Dependencies = %v, want one blocks edge", fetched.Dependencies)
	}
}

func TestAddDependencyRejectsSelfDependency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Solo task")

	err := s.AddDependency(ctx, a.ID, a.ID, types.DepBlocks, "")
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddDependencyRejectsDuplicateEdge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Task A")
	b := createIssue(t, s, "Task B")

	if err := s.AddDependency(ctx, a.ID, b.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add A->B: %v", err)
	}

	err := s.AddDependency(ctx, a.ID, b.ID, types.DepRelated, "")
	if !errs.Is(err, errs.KindConflict) {
		t.Fatalf("expected conflict error on a repeat (issue_id, depends_on_id) pair, got %v", err)
	}

	fetched, getErr := s.Get(ctx, a.ID)
	if getErr != nil {
		t.Fatalf("get: %v", getErr)
	}
	if len(fetched.Dependencies) != 1 || fetched.Dependencies[0].Type != types.DepBlocks {
		t.Fatalf("Dependencies = %v, want the original blocks edge left unchanged", fetched.Dependencies)
	}
}

func TestAddDependencyRejectsDirectCycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Task A")
	b := createIssue(t, s, "Task B")

	if err := s.AddDependency(ctx, a.ID, b.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add A->B: %v", err)
	}

	err := s.AddDependency(ctx, b.ID, a.ID, types.DepBlocks, "")
	if !errs.Is(err, errs.KindCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestAddDependencyRejectsTransitiveCycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Task A")
	b := createIssue(t, s, "Task B")
	c := createIssue(t, s, "Task C")

	if err := s.AddDependency(ctx, a.ID, b.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add A->B: %v", err)
	}
	if err := s.AddDependency(ctx, b.ID, c.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add B->C: %v", err)
	}

	err := s.AddDependency(ctx, c.ID, a.ID, types.DepBlocks, "")
	if !errs.Is(err, errs.KindCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestRemoveDependencyDeletesEdge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Task A")
	b := createIssue(t, s, "Task B")

	if err := s.AddDependency(ctx, a.ID, b.ID, types.DepBlocks, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.RemoveDependency(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	fetched, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(fetched.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none after removal", fetched.Dependencies)
	}
}

func TestRemoveDependencyMissingEdgeIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createIssue(t, s, "Task A")
	b := createIssue(t, s, "Task B")

	err := s.RemoveDependency(ctx, a.ID, b.ID)
	if !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestChildCounterNextIncrementsPerParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := createIssue(t, s, "Epic parent")

	first, err := s.childCounterNext(ctx, parent.ID)
	if err != nil {
		t.Fatalf("first next: %v", err)
	}
	second, err := s.childCounterNext(ctx, parent.ID)
	if err != nil {
		t.Fatalf("second next: %v", err)
	}
	if first != 1 || second != 2 {
		t.Errorf("childCounterNext sequence = %d, %d, want 1, 2", first, second)
	}
}
