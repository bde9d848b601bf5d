package bulkimport

import (
	"strings"
	"testing"

	"github.com/beads-core/beads/internal/types"
)

func TestParseMarkdownHeadingDelimited(t *testing.T) {
	src := `## Fix login bug
The login form rejects valid passwords.
labels: bug, auth

## Add dark mode
Users have asked for this repeatedly.
labels: feature
`
	drafts, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}

	if drafts[0].Title != "Fix login bug" {
		t.Errorf("drafts[0].Title = %q", drafts[0].Title)
	}
	if drafts[0].Description != "The login form rejects valid passwords." {
		t.Errorf("drafts[0].Description = %q", drafts[0].Description)
	}
	if len(drafts[0].Labels) != 2 || drafts[0].Labels[0] != "bug" || drafts[0].Labels[1] != "auth" {
		t.Errorf("drafts[0].Labels = %v", drafts[0].Labels)
	}

	if drafts[1].Title != "Add dark mode" {
		t.Errorf("drafts[1].Title = %q", drafts[1].Title)
	}
	if len(drafts[1].Labels) != 1 || drafts[1].Labels[0] != "feature" {
		t.Errorf("drafts[1].Labels = %v", drafts[1].Labels)
	}
}

func TestParseMarkdownFlatBulletList(t *testing.T) {
	src := `- Write onboarding docs
- Rotate API keys
- Investigate flaky CI
`
	drafts, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("got %d drafts, want 3", len(drafts))
	}
	want := []string{"Write onboarding docs", "Rotate API keys", "Investigate flaky CI"}
	for i, w := range want {
		if drafts[i].Title != w {
			t.Errorf("drafts[%d].Title = %q, want %q", i, drafts[i].Title, w)
		}
		if drafts[i].Description != "" {
			t.Errorf("drafts[%d].Description = %q, want empty", i, drafts[i].Description)
		}
	}
}

func TestParseMarkdownMultilineDescription(t *testing.T) {
	src := `## Investigate memory leak

The service's RSS grows unbounded under load.
Suspect the connection pool isn't releasing handles.

Reproduced on staging after ~2 hours.
`
	drafts, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	desc := drafts[0].Description
	if !strings.Contains(desc, "RSS grows unbounded") || !strings.Contains(desc, "Reproduced on staging") {
		t.Errorf("drafts[0].Description = %q", desc)
	}
}

func TestParseMarkdownIgnoresTextBeforeFirstHeading(t *testing.T) {
	src := `this is a preamble with no issue yet

## Real issue
body text
`
	drafts, err := ParseMarkdown(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].Title != "Real issue" {
		t.Errorf("drafts[0].Title = %q", drafts[0].Title)
	}
}

func TestParseMarkdownEmptyInput(t *testing.T) {
	drafts, err := ParseMarkdown(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("got %d drafts, want 0", len(drafts))
	}
}

func TestToIssuesAppliesDefaults(t *testing.T) {
	drafts := []*Draft{
		{Title: "Do the thing", Description: "details", Labels: []string{"x"}},
	}
	issues := ToIssues(drafts)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	issue := issues[0]
	if issue.Title != "Do the thing" || issue.Description != "details" {
		t.Errorf("issue = %+v", issue)
	}
	if issue.Status != types.StatusOpen {
		t.Errorf("issue.Status = %q, want %q", issue.Status, types.StatusOpen)
	}
	if issue.IssueType != types.TypeTask {
		t.Errorf("issue.IssueType = %q, want %q", issue.IssueType, types.TypeTask)
	}
	if len(issue.Labels) != 1 || issue.Labels[0] != "x" {
		t.Errorf("issue.Labels = %v", issue.Labels)
	}
}
