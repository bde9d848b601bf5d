package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beads-core/beads/internal/contenthash"
	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/store"
	"github.com/beads-core/beads/internal/types"
)

// vcsConflictMarker is the start of a git merge-conflict marker line. A
// JSONL file containing one was never resolved and must not be imported.
const vcsConflictMarker = "<<<<<<<"

// maxLineSize mirrors the teacher's JSONL reader: large descriptions and
// embedded comment threads can push a single line well past bufio's
// default 64KB token limit.
const maxLineSize = 64 * 1024 * 1024

// Warning is a non-fatal condition surfaced during import: a dropped
// orphan edge, a dropped cycle-forming edge, or a skipped duplicate.
type Warning struct {
	Line    int
	IssueID string
	Message string
}

// Result summarizes a completed import.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
	Warnings []Warning
}

// Import reads a JSONL stream and applies each record to s under the
// given conflict and orphan policies. A structural failure — a VCS
// conflict marker, a line that isn't valid JSON, or (under the strict
// orphan policy) a dependency whose target can't be resolved — aborts
// the whole import with the offending line number. Everything else (a
// dropped orphan or cycle-forming edge under keep/drop, a policy-driven
// skip) is recorded as a Warning and the import continues.
func Import(ctx context.Context, s *store.Store, r io.Reader, conflict ConflictPolicy, orphan OrphanPolicy) (*Result, error) {
	if !conflict.IsValid() {
		return nil, fmt.Errorf("unknown conflict policy %q", conflict)
	}
	if !orphan.IsValid() {
		return nil, fmt.Errorf("unknown orphan policy %q", orphan)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	result := &Result{}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, vcsConflictMarker) {
			return nil, fmt.Errorf("line %d: unresolved merge conflict marker, aborting import", lineNum)
		}

		var incoming types.Issue
		if err := json.Unmarshal([]byte(line), &incoming); err != nil {
			return nil, fmt.Errorf("line %d: invalid issue record: %w", lineNum, err)
		}

		if err := importIssue(ctx, s, &incoming, conflict, orphan, lineNum, result); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan import stream: %w", err)
	}

	if err := s.RebuildDirtySet(ctx); err != nil {
		return nil, fmt.Errorf("rebuild dirty set after import: %w", err)
	}
	return result, nil
}

// ImportFile opens path and delegates to Import.
func ImportFile(ctx context.Context, s *store.Store, path string, conflict ConflictPolicy, orphan OrphanPolicy) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return Import(ctx, s, f, conflict, orphan)
}

func importIssue(ctx context.Context, s *store.Store, incoming *types.Issue, conflict ConflictPolicy, orphan OrphanPolicy, lineNum int, result *Result) error {
	if incoming.ID == "" {
		return fmt.Errorf("issue record missing id")
	}
	if incoming.ContentHash == "" {
		incoming.ContentHash = contenthash.Of(incoming)
	}

	existing, err := s.Get(ctx, incoming.ID)
	if err != nil && !errs.Is(err, errs.KindNotFound) {
		return fmt.Errorf("look up existing issue %q: %w", incoming.ID, err)
	}

	overwrite := true
	skip := false
	switch {
	case existing == nil:
		// nothing to conflict with; always write.
	case conflict == PolicyPreferExisting:
		skip = existing.ContentHash != incoming.ContentHash
	case conflict == PolicyPreferIncoming:
		// overwrite stays true
	case conflict == PolicyNewestWins:
		if existing.ContentHash == incoming.ContentHash {
			skip = true
		} else if !incoming.UpdatedAt.After(existing.UpdatedAt) {
			// a tie goes to the existing record.
			skip = true
		}
	}

	deps := incoming.Dependencies
	incoming.Dependencies = nil
	comments := incoming.Comments
	incoming.Comments = nil

	if skip {
		result.Skipped++
		result.Warnings = append(result.Warnings, Warning{
			Line: lineNum, IssueID: incoming.ID,
			Message: fmt.Sprintf("conflicting record for %q kept the existing version under %s", incoming.ID, conflict),
		})
	} else {
		action, err := s.UpsertFromImport(ctx, incoming, overwrite)
		if err != nil {
			return fmt.Errorf("import issue %q: %w", incoming.ID, err)
		}
		switch action {
		case store.ImportInserted:
			result.Inserted++
		case store.ImportUpdated:
			result.Updated++
		case store.ImportSkipped:
			result.Skipped++
		}
	}

	for _, dep := range deps {
		written, isOrphan, isCycle, err := s.ImportDependency(ctx, dep, orphan == OrphanDrop, orphan == OrphanStrict)
		if err != nil {
			return fmt.Errorf("import dependency %q -> %q: %w", dep.IssueID, dep.DependsOnID, err)
		}
		if !written {
			reason := "dropped"
			switch {
			case isOrphan:
				reason = fmt.Sprintf("orphan dependency target %q not found", dep.DependsOnID)
			case isCycle:
				reason = fmt.Sprintf("dependency %q -> %q would form a cycle", dep.IssueID, dep.DependsOnID)
			}
			result.Warnings = append(result.Warnings, Warning{
				Line: lineNum, IssueID: dep.IssueID,
				Message: reason,
			})
		}
	}

	for _, c := range comments {
		if _, err := s.AddComment(ctx, incoming.ID, c.Author, c.Text); err != nil {
			result.Warnings = append(result.Warnings, Warning{
				Line: lineNum, IssueID: incoming.ID,
				Message: fmt.Sprintf("comment not imported: %v", err),
			})
		}
	}

	return nil
}
