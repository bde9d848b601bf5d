package store

import (
	"context"
	"testing"

	"github.com/beads-core/beads/internal/types"
)

func TestAddCommentPersistsAndRecordsEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	issue := createIssue(t, s, "Investigate customer report")

	comment, err := s.AddComment(ctx, issue.ID, "alice", "Reproduced on staging")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.ID == 0 {
		t.Error("expected a non-zero comment ID")
	}

	fetched, err := s.Get(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(fetched.Comments) != 1 || fetched.Comments[0].Text != "Reproduced on staging" {
		t.Fatalf("Comments = %v, want one matching comment", fetched.Comments)
	}

	events, err := s.Events(ctx, issue.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	found := false
	for _, e := range events {
		if e.EventType == types.EventCommentAdded {
			found = true
		}
	}
	if !found {
		t.Errorf("events %v missing EventCommentAdded", events)
	}
}
