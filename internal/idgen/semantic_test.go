package idgen

import (
	"testing"

	"github.com/beads-core/beads/internal/types"
)

func TestGenerateSlug(t *testing.T) {
	gen := NewSemanticIDGenerator()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Fix login timeout", "fix_login_timeout"},
		{"with articles", "The API returns an error", "api_returns_error"},
		{"with prepositions", "Add support for dark mode", "add_support_dark_mode"},
		{"uppercase", "FIX THE BUG", "fix_bug"},
		{"numbers", "Fix issue 123", "fix_issue_123"},
		{"punctuation", "Fix: login (timeout)", "fix_login_timeout"},
		{"special chars", "Fix bug #42 - login", "fix_bug_42_login"},
		{"priority prefix", "URGENT: Fix login", "fix_login"},
		{"p0 prefix", "P0 Database crash", "database_crash"},
		{"empty", "", "untitled"},
		{"only stop words", "the a an", "the"},
		{"numeric start", "123 fix", "n123_fix"},
		{"hyphens to underscores", "fix-login-bug", "fix_login_bug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gen.GenerateSlug(tt.title)
			if got != tt.want {
				t.Errorf("GenerateSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestGenerateSemanticID(t *testing.T) {
	gen := NewSemanticIDGenerator()

	tests := []struct {
		name        string
		prefix      string
		issueType   types.IssueType
		title       string
		existingIDs []string
		want        string
	}{
		{
			name:      "basic bug",
			prefix:    "gt",
			issueType: types.TypeBug,
			title:     "Fix login timeout",
			want:      "gt-bug-fix_login_timeout",
		},
		{
			name:      "task type",
			prefix:    "bd",
			issueType: types.TypeTask,
			title:     "Implement caching",
			want:      "bd-tsk-implement_caching",
		},
		{
			name:      "feature type",
			prefix:    "gt",
			issueType: types.TypeFeature,
			title:     "Add dark mode",
			want:      "gt-feat-add_dark_mode",
		},
		{
			name:      "epic type",
			prefix:    "hq",
			issueType: types.TypeEpic,
			title:     "Semantic issue IDs",
			want:      "hq-epic-semantic_issue_ids",
		},
		{
			name:        "collision handling",
			prefix:      "gt",
			issueType:   types.TypeBug,
			title:       "Fix login timeout",
			existingIDs: []string{"gt-bug-fix_login_timeout"},
			want:        "gt-bug-fix_login_timeout_2",
		},
		{
			name:        "multiple collisions",
			prefix:      "gt",
			issueType:   types.TypeBug,
			title:       "Fix login timeout",
			existingIDs: []string{"gt-bug-fix_login_timeout", "gt-bug-fix_login_timeout_2"},
			want:        "gt-bug-fix_login_timeout_3",
		},
		{
			name:      "unknown type defaults to task",
			prefix:    "gt",
			issueType: types.IssueType("unknown"),
			title:     "Something",
			want:      "gt-tsk-something",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gen.GenerateSemanticID(tt.prefix, tt.issueType, tt.title, tt.existingIDs)
			if got != tt.want {
				t.Errorf("GenerateSemanticID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateSemanticIDWithCallback(t *testing.T) {
	gen := NewSemanticIDGenerator()

	existingIDs := map[string]bool{
		"gt-bug-fix_login": true,
	}
	exists := func(id string) bool {
		return existingIDs[id]
	}

	id := gen.GenerateSemanticIDWithCallback("gt", types.TypeBug, "Fix login", exists)
	if id != "gt-bug-fix_login_2" {
		t.Errorf("Got %q, want gt-bug-fix_login_2", id)
	}

	id = gen.GenerateSemanticIDWithCallback("gt", types.TypeTask, "New feature", exists)
	if id != "gt-tsk-new_feature" {
		t.Errorf("Got %q, want gt-tsk-new_feature", id)
	}
}

func TestSlugLength(t *testing.T) {
	gen := NewSemanticIDGenerator()

	longTitle := "This is an extremely long title that goes on and on and should definitely be truncated to fit within the maximum allowed slug length which is forty-six characters"
	slug := gen.GenerateSlug(longTitle)

	if len(slug) > 46 {
		t.Errorf("Slug length %d exceeds max 46: %q", len(slug), slug)
	}

	if len(slug) < 3 {
		t.Errorf("Slug length %d is below minimum 3: %q", len(slug), slug)
	}
}

func TestStopWordRemoval(t *testing.T) {
	gen := NewSemanticIDGenerator()

	slug := gen.GenerateSlug("is are the a an")
	if slug == "" || len(slug) < 3 {
		t.Errorf("Slug from stop words should have fallback, got %q", slug)
	}
}

func TestTypeAbbreviations(t *testing.T) {
	gen := NewSemanticIDGenerator()

	cases := []struct {
		issueType types.IssueType
		abbrev    string
	}{
		{types.TypeBug, "bug"},
		{types.TypeTask, "tsk"},
		{types.TypeFeature, "feat"},
		{types.TypeEpic, "epic"},
		{types.TypeChore, "chore"},
		{types.TypeDocs, "docs"},
		{types.TypeQuestion, "q"},
	}

	for _, tt := range cases {
		t.Run(string(tt.issueType), func(t *testing.T) {
			id := gen.GenerateSemanticID("gt", tt.issueType, "Test", nil)
			expectedPrefix := "gt-" + tt.abbrev + "-"
			if !startsWith(id, expectedPrefix) {
				t.Errorf("ID %q should start with %q", id, expectedPrefix)
			}
		})
	}
}

func startsWith(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
