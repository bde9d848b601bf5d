// Package bulkimport parses a markdown file into draft issues for
// `create --file`: one issue per top-level "## " heading (or "- "
// bullet, for a flatter list), with everything between one heading and
// the next becoming that issue's description.
package bulkimport

import (
	"bufio"
	"io"
	"strings"

	"github.com/beads-core/beads/internal/types"
)

// Draft is one parsed issue, not yet validated or ID-assigned.
type Draft struct {
	Title       string
	Description string
	Labels      []string
}

// ParseMarkdown reads r and returns one Draft per top-level heading or
// bullet. Lines are otherwise treated as free text appended to the
// current draft's description. A line of the form "labels: a, b, c"
// anywhere under a heading attaches labels to that draft instead of
// becoming description text.
func ParseMarkdown(r io.Reader) ([]*Draft, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var drafts []*Draft
	var current *Draft
	var desc []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(desc, "\n"))
		drafts = append(drafts, current)
		desc = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			current = &Draft{Title: strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))}
		case strings.HasPrefix(line, "- "):
			flush()
			current = &Draft{Title: strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))}
		case strings.HasPrefix(strings.ToLower(trimmed), "labels:") && current != nil:
			raw := strings.TrimSpace(trimmed[len("labels:"):])
			for _, label := range strings.Split(raw, ",") {
				if label = strings.TrimSpace(label); label != "" {
					current.Labels = append(current.Labels, label)
				}
			}
		case current != nil:
			desc = append(desc, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ToIssues converts parsed drafts into *types.Issue values ready for
// Store.Create, applying the same defaults Create itself would.
func ToIssues(drafts []*Draft) []*types.Issue {
	issues := make([]*types.Issue, 0, len(drafts))
	for _, d := range drafts {
		issues = append(issues, &types.Issue{
			Title:       d.Title,
			Description: d.Description,
			Labels:      d.Labels,
			Status:      types.StatusOpen,
			IssueType:   types.TypeTask,
		})
	}
	return issues
}
