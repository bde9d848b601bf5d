package store

import (
	"context"
	"database/sql"

	"github.com/beads-core/beads/internal/errs"
)

// rebuildBlockedCache recomputes blocked_issues_cache from scratch: an
// open or in-progress issue is blocked if it has a "blocks" dependency
// on a blocker whose status isn't closed or tombstone, or if it is a
// parent_child descendant of such an issue (transitive blocking,
// bounded to depth 50 to match the teacher's recursive-CTE
// convention). blocked_by stores the direct blockers as a comma-joined
// list; transitively-blocked issues (no direct blocker) store an empty
// string there, distinguishing "blocked by an ancestor" from "blocked
// directly" for callers that want to explain why.
func (s *Store) rebuildBlockedCache(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "rebuild blocked cache", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocked_issues_cache`); err != nil {
		return errs.New(errs.KindIO, "rebuild blocked cache", err)
	}

	const query = `
		INSERT INTO blocked_issues_cache (issue_id, blocked_by)
		WITH RECURSIVE
		  blocked_directly AS (
		    SELECT d.issue_id AS issue_id,
		           group_concat(DISTINCT d.depends_on_id) AS blockers
		    FROM dependencies d
		    JOIN issues blocker ON d.depends_on_id = blocker.id
		    WHERE d.type = 'blocks'
		      AND blocker.status NOT IN ('closed', 'tombstone')
		    GROUP BY d.issue_id
		  ),
		  blocked_transitively AS (
		    SELECT issue_id, blockers, 0 AS depth
		    FROM blocked_directly

		    UNION ALL

		    SELECT d.issue_id, '', bt.depth + 1
		    FROM blocked_transitively bt
		    JOIN dependencies d ON d.depends_on_id = bt.issue_id
		    WHERE d.type = 'parent_child'
		      AND bt.depth < 50
		  )
		SELECT bt.issue_id, COALESCE(MAX(bt.blockers), '')
		FROM blocked_transitively bt
		JOIN issues i ON i.id = bt.issue_id
		WHERE i.status IN ('open', 'in_progress')
		GROUP BY bt.issue_id
	`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return errs.New(errs.KindIO, "rebuild blocked cache", err)
	}

	return tx.Commit()
}

// IsBlocked reports whether issueID currently appears in the blocked cache.
func (s *Store) IsBlocked(ctx context.Context, issueID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM blocked_issues_cache WHERE issue_id = ?`, issueID).Scan(&n)
	if err != nil {
		return false, errs.New(errs.KindIO, "check blocked", err)
	}
	return n > 0, nil
}

// BlockedBy returns the direct blockers recorded for issueID, or nil if
// the issue isn't in the cache or is only transitively blocked.
func (s *Store) BlockedBy(ctx context.Context, issueID string) ([]string, error) {
	var blockers string
	err := s.db.QueryRowContext(ctx, `SELECT blocked_by FROM blocked_issues_cache WHERE issue_id = ?`, issueID).Scan(&blockers)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.New(errs.KindIO, "blocked by", err)
	}
	if blockers == "" {
		return nil, nil
	}
	return splitCSV(blockers), nil
}
