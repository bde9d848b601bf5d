package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

// SortPolicy controls the ordering of GetReadyWork results.
type SortPolicy string

const (
	SortPolicyPriorityThenCreated SortPolicy = "priority_then_created"
	SortPolicyRecentFirst         SortPolicy = "recent_first"
	SortPolicyPriorityThenRecent  SortPolicy = "priority_then_recent"
)

// WorkFilter narrows GetReadyWork's result set.
type WorkFilter struct {
	Status     types.Status
	Type       types.IssueType
	Priority   *int
	Assignee   *string
	Unassigned bool
	Labels     []string // AND semantics
	LabelsAny  []string // OR semantics
	SortPolicy SortPolicy
	Limit      int
}

// GetReadyWork returns unblocked, unpinned, non-ephemeral issues whose
// defer_until, if set, is not in the future: those absent from the
// materialized blocked_issues_cache, defaulting to open/in_progress
// status so work about to close (all blockers resolved) is still visible.
func (s *Store) GetReadyWork(ctx context.Context, f WorkFilter) ([]*types.Issue, error) {
	where := []string{
		"i.pinned = 0",
		"i.ephemeral = 0",
		"(i.defer_until IS NULL OR datetime(i.defer_until) <= datetime('now'))",
	}
	var args []any

	if f.Status == "" {
		where = append(where, "i.status IN ('open', 'in_progress')")
	} else {
		where = append(where, "i.status = ?")
		args = append(args, string(f.Status))
	}

	if f.Type != "" {
		where = append(where, "i.issue_type = ?")
		args = append(args, string(f.Type))
	}
	if f.Priority != nil {
		where = append(where, "i.priority = ?")
		args = append(args, *f.Priority)
	}
	if f.Unassigned {
		where = append(where, "(i.assignee IS NULL OR i.assignee = '')")
	} else if f.Assignee != nil {
		where = append(where, "i.assignee = ?")
		args = append(args, *f.Assignee)
	}
	for _, label := range f.Labels {
		where = append(where, `EXISTS (SELECT 1 FROM labels WHERE issue_id = i.id AND label = ?)`)
		args = append(args, label)
	}
	if len(f.LabelsAny) > 0 {
		placeholders := make([]string, len(f.LabelsAny))
		for i, label := range f.LabelsAny {
			placeholders[i] = "?"
			args = append(args, label)
		}
		where = append(where, fmt.Sprintf(`EXISTS (SELECT 1 FROM labels WHERE issue_id = i.id AND label IN (%s))`, strings.Join(placeholders, ",")))
	}

	limitSQL := ""
	if f.Limit > 0 {
		limitSQL = fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM issues i
		WHERE %s
		AND NOT EXISTS (SELECT 1 FROM blocked_issues_cache WHERE issue_id = i.id)
		%s%s
	`, columnsPrefixed("i"), strings.Join(where, " AND "), buildOrderByClause(f.SortPolicy), limitSQL)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.New(errs.KindIO, "get ready work", err)
	}
	defer rows.Close()

	var out []*types.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, errs.New(errs.KindIO, "get ready work", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// BlockedIssue pairs an issue with the IDs directly blocking it.
type BlockedIssue struct {
	Issue          *types.Issue
	BlockedByCount int
	BlockedBy      []string
}

// GetBlockedIssues returns every non-pinned issue currently present in
// the blocked cache, ordered by priority.
func (s *Store) GetBlockedIssues(ctx context.Context) ([]*BlockedIssue, error) {
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(c.blocked_by, '')
		FROM issues i
		JOIN blocked_issues_cache c ON c.issue_id = i.id
		WHERE i.pinned = 0
		ORDER BY i.priority ASC
	`, columnsPrefixed("i"))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.New(errs.KindIO, "get blocked issues", err)
	}
	defer rows.Close()

	var out []*BlockedIssue
	for rows.Next() {
		// scanIssue expects exactly issueColumns; append the trailing
		// blocked_by column via a secondary variable by re-slicing Scan.
		issue, blockers, err := scanIssueWithBlockedBy(rows)
		if err != nil {
			return nil, errs.New(errs.KindIO, "get blocked issues", err)
		}
		var ids []string
		if blockers != "" {
			ids = strings.Split(blockers, ",")
		}
		out = append(out, &BlockedIssue{Issue: issue, BlockedByCount: len(ids), BlockedBy: ids})
	}
	return out, rows.Err()
}

// GetStaleIssues returns non-closed issues whose updated_at predates
// `now - days`.
func (s *Store) GetStaleIssues(ctx context.Context, days int, status types.Status, limit int) ([]*types.Issue, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM issues i
		WHERE i.status != 'closed'
		  AND datetime(i.updated_at) < datetime('now', '-' || ? || ' days')
	`, columnsPrefixed("i"))
	args := []any{days}
	if status != "" {
		query += " AND i.status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY i.updated_at ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.New(errs.KindIO, "get stale issues", err)
	}
	defer rows.Close()

	var out []*types.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, errs.New(errs.KindIO, "get stale issues", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

func buildOrderByClause(policy SortPolicy) string {
	switch policy {
	case SortPolicyRecentFirst:
		return `ORDER BY i.created_at DESC`
	case SortPolicyPriorityThenRecent:
		return `ORDER BY i.priority ASC, i.created_at DESC`
	case SortPolicyPriorityThenCreated, "":
		fallthrough
	default:
		return `ORDER BY i.priority ASC, i.created_at ASC`
	}
}
