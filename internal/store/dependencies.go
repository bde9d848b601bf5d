package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/beads-core/beads/internal/cycledetect"
	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

// AddDependency records issueID depends-on dependsOnID. For DepBlocks
// edges it refuses to create a cycle (I5): the candidate edge is
// checked with the BFS cycle detector before the insert commits. A
// repeat call for the same (issue_id, depends_on_id) pair is rejected
// as a conflict rather than silently changing the edge's type; remove
// the existing edge first if the type needs to change.
func (s *Store) AddDependency(ctx context.Context, issueID, dependsOnID string, depType types.DepType, createdBy string) error {
	if depType == "" {
		depType = types.DepBlocks
	}
	if !depType.IsValid() {
		return errs.Newf(errs.KindValidation, "add dependency", "invalid dependency type %q", depType)
	}
	if issueID == dependsOnID {
		return errs.Newf(errs.KindValidation, "add dependency", "issue %q cannot depend on itself", issueID)
	}

	if depType == types.DepBlocks {
		wouldCycle, err := s.wouldCreateCycle(ctx, issueID, dependsOnID)
		if err != nil {
			return errs.New(errs.KindIO, "add dependency", err)
		}
		if wouldCycle {
			return errs.Newf(errs.KindCycle, "add dependency", "adding %q -> %q would create a dependency cycle", issueID, dependsOnID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "add dependency", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dependencies (issue_id, depends_on_id, type, created_at, created_by) VALUES (?,?,?,?,?)`,
		issueID, dependsOnID, string(depType), formatTime(time.Now().UTC()), createdBy,
	); err != nil {
		return errs.New(errs.KindConflict, "add dependency", err)
	}

	if err := recordEventTx(ctx, tx, issueID, types.EventDependencyAdded, "", dependsOnID, "", createdBy); err != nil {
		return err
	}
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindIO, "add dependency", err)
	}

	return s.rebuildBlockedCache(ctx)
}

// RemoveDependency deletes a single dependency edge, if present.
func (s *Store) RemoveDependency(ctx context.Context, issueID, dependsOnID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "remove dependency", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM dependencies WHERE issue_id = ? AND depends_on_id = ?`, issueID, dependsOnID)
	if err != nil {
		return errs.New(errs.KindIO, "remove dependency", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Newf(errs.KindNotFound, "remove dependency", "no dependency %q -> %q", issueID, dependsOnID)
	}

	if err := recordEventTx(ctx, tx, issueID, types.EventDependencyDrop, dependsOnID, "", "", ""); err != nil {
		return err
	}
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindIO, "remove dependency", err)
	}

	return s.rebuildBlockedCache(ctx)
}

func (s *Store) dependenciesFor(ctx context.Context, issueID string) ([]*types.Dependency, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT issue_id, depends_on_id, type, created_at, created_by, metadata, thread_id
		 FROM dependencies WHERE issue_id = ? ORDER BY depends_on_id`, issueID)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list dependencies", err)
	}
	defer rows.Close()

	var out []*types.Dependency
	for rows.Next() {
		var d types.Dependency
		var createdAtStr string
		if err := rows.Scan(&d.IssueID, &d.DependsOnID, &d.Type, &createdAtStr, &d.CreatedBy, &d.Metadata, &d.ThreadID); err != nil {
			return nil, errs.New(errs.KindIO, "list dependencies", err)
		}
		d.CreatedAt = parseTime(createdAtStr)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// wouldCreateCycle reports whether adding issueID -> dependsOnID would
// close a cycle in the blocks-type dependency graph. Grounded on the
// BFS-from-target algorithm: a cycle exists iff issueID is already
// reachable from dependsOnID by following existing "blocks" edges.
func (s *Store) wouldCreateCycle(ctx context.Context, issueID, dependsOnID string) (bool, error) {
	edges := func(from string) ([]string, error) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT depends_on_id FROM dependencies WHERE issue_id = ? AND type = ?`, from, string(types.DepBlocks))
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var out []string
		for rows.Next() {
			var to string
			if err := rows.Scan(&to); err != nil {
				return nil, err
			}
			out = append(out, to)
		}
		return out, rows.Err()
	}

	edgeCount, err := s.edgeCount(ctx)
	if err != nil {
		return false, err
	}

	return cycledetect.WouldCreateCycle(dependsOnID, issueID, edgeCount, edges)
}

func (s *Store) edgeCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dependencies WHERE type = ?`, string(types.DepBlocks)).Scan(&n)
	return n, err
}

// childCounterNext is exposed for the identifier module's hierarchical
// ID suffixing; it is also used directly by tests.
func (s *Store) childCounterNext(ctx context.Context, parentID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var last int
	err = tx.QueryRowContext(ctx, `SELECT last_child FROM child_counters WHERE parent_id = ?`, parentID).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	next := last + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO child_counters (parent_id, last_child) VALUES (?, ?)
		 ON CONFLICT(parent_id) DO UPDATE SET last_child = excluded.last_child`,
		parentID, next,
	); err != nil {
		return 0, err
	}
	return next, tx.Commit()
}
