package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/beads-core/beads/internal/contenthash"
	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

// ExportFilter selects which issues ExportIDs returns for sync's export
// pass.
type ExportFilter struct {
	// Dirty restricts the set to GetDirtyIDs; when false, every
	// non-tombstone issue is returned (IncludeTombstones overrides that).
	Dirty             bool
	IncludeTombstones bool
}

// ExportIDs returns the ordered set of issue IDs an export pass should
// write, matching spec's default (dirty-set) and full (all non-tombstone
// unless requested) modes.
func (s *Store) ExportIDs(ctx context.Context, f ExportFilter) ([]string, error) {
	if f.Dirty {
		return s.GetDirtyIDs(ctx)
	}
	query := `SELECT id FROM issues`
	if !f.IncludeTombstones {
		query += ` WHERE status != 'tombstone'`
	}
	query += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list export ids", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.New(errs.KindIO, "list export ids", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Exists reports whether id names a live row in issues, regardless of
// status.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM issues WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, errs.New(errs.KindIO, "check issue exists", err)
	}
	return n > 0, nil
}

// ImportAction reports what UpsertFromImport did with one incoming record.
type ImportAction string

const (
	ImportInserted ImportAction = "inserted"
	ImportUpdated  ImportAction = "updated"
	ImportSkipped  ImportAction = "skipped"
)

// UpsertFromImport writes one incoming issue under the conflict policy
// the caller already resolved (prefer_incoming/prefer_existing/newest_wins
// is sync's decision; this just performs insert-or-overwrite-or-skip).
// Unlike Create/Update, it preserves the incoming record's exact
// CreatedAt/UpdatedAt/ContentHash instead of recomputing them, and it
// does not touch the dirty set — that's rebuilt once, after the whole
// file is processed, by RebuildDirtySet.
func (s *Store) UpsertFromImport(ctx context.Context, issue *types.Issue, overwrite bool) (ImportAction, error) {
	exists, err := s.Exists(ctx, issue.ID)
	if err != nil {
		return "", err
	}
	if exists && !overwrite {
		return ImportSkipped, nil
	}
	if err := issue.Validate(); err != nil {
		return "", errs.New(errs.KindValidation, "import issue", err)
	}
	if issue.ContentHash == "" {
		issue.ContentHash = contenthash.Of(issue)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errs.New(errs.KindIO, "import issue", err)
	}
	defer func() { _ = tx.Rollback() }()

	if exists {
		if _, err := tx.ExecContext(ctx, `UPDATE issues SET
			content_hash=?, title=?, description=?, design=?, acceptance_criteria=?, notes=?,
			status=?, priority=?, issue_type=?, assignee=?, owner=?, created_by=?, estimated_minutes=?,
			created_at=?, updated_at=?, closed_at=?, close_reason=?, closed_by_session=?,
			due_at=?, defer_until=?, external_ref=?, source_system=?, source_repo=?,
			deleted_at=?, deleted_by=?, delete_reason=?, ephemeral=?, pinned=?, is_template=?
			WHERE id=?`,
			issue.ContentHash, issue.Title, issue.Description, issue.Design, issue.AcceptanceCriteria, issue.Notes,
			string(issue.Status), issue.Priority, string(issue.IssueType), issue.Assignee, issue.Owner, issue.CreatedBy, issue.EstimatedMinutes,
			formatTime(issue.CreatedAt), formatTime(issue.UpdatedAt), formatNullTime(issue.ClosedAt), issue.CloseReason, issue.ClosedBySession,
			formatNullTime(issue.DueAt), formatNullTime(issue.DeferUntil), issue.ExternalRef, issue.SourceSystem, issue.SourceRepo,
			formatNullTime(issue.DeletedAt), issue.DeletedBy, issue.DeleteReason, boolInt(issue.Ephemeral), boolInt(issue.Pinned), boolInt(issue.IsTemplate),
			issue.ID,
		); err != nil {
			return "", errs.New(errs.KindConflict, "import issue", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE issue_id = ?`, issue.ID); err != nil {
			return "", errs.New(errs.KindIO, "import issue", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `INSERT INTO issues (`+issueColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			issue.ID, issue.ContentHash, issue.Title, issue.Description, issue.Design, issue.AcceptanceCriteria, issue.Notes,
			string(issue.Status), issue.Priority, string(issue.IssueType), issue.Assignee, issue.Owner, issue.CreatedBy, issue.EstimatedMinutes,
			formatTime(issue.CreatedAt), formatTime(issue.UpdatedAt), formatNullTime(issue.ClosedAt), issue.CloseReason, issue.ClosedBySession,
			formatNullTime(issue.DueAt), formatNullTime(issue.DeferUntil), issue.ExternalRef, issue.SourceSystem, issue.SourceRepo,
			formatNullTime(issue.DeletedAt), issue.DeletedBy, issue.DeleteReason, boolInt(issue.Ephemeral), boolInt(issue.Pinned), boolInt(issue.IsTemplate),
		); err != nil {
			return "", errs.New(errs.KindConflict, "import issue", err)
		}
	}

	for _, label := range issue.Labels {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO labels (issue_id, label) VALUES (?, ?)`, issue.ID, label); err != nil {
			return "", errs.New(errs.KindIO, "import issue: add label", err)
		}
	}

	action := ImportInserted
	if exists {
		action = ImportUpdated
	}
	if err := recordEventTx(ctx, tx, issue.ID, types.EventUpdated, "", "", "import", ""); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", errs.New(errs.KindIO, "import issue", err)
	}
	return action, nil
}

// ImportDependency writes one incoming dependency edge honoring the
// orphan policy for an unresolved target and dropping (never aborting)
// a blocks-type edge that would close a cycle. It reports whether the
// edge was written and, if not, why.
func (s *Store) ImportDependency(ctx context.Context, dep *types.Dependency, orphanDrop, orphanStrict bool) (written bool, orphan bool, cycle bool, err error) {
	targetExists, err := s.Exists(ctx, dep.DependsOnID)
	if err != nil {
		return false, false, false, err
	}
	if !targetExists {
		if orphanStrict {
			return false, true, false, errs.Newf(errs.KindValidation, "import dependency", "dependency %q -> %q references an unknown issue", dep.IssueID, dep.DependsOnID)
		}
		if orphanDrop {
			return false, true, false, nil
		}
		// keep: fall through and write the edge even though the target is unresolved.
	}

	if dep.Type == types.DepBlocks {
		wouldCycle, err := s.wouldCreateCycle(ctx, dep.IssueID, dep.DependsOnID)
		if err != nil {
			return false, false, false, err
		}
		if wouldCycle {
			return false, false, true, nil
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dependencies (issue_id, depends_on_id, type, created_at, created_by, metadata, thread_id) VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT(issue_id, depends_on_id) DO UPDATE SET type = excluded.type`,
		dep.IssueID, dep.DependsOnID, string(dep.Type), formatTime(dep.CreatedAt), dep.CreatedBy, dep.Metadata, dep.ThreadID,
	)
	if err != nil {
		return false, false, false, errs.New(errs.KindIO, "import dependency", err)
	}
	return true, false, false, nil
}

// RebuildDirtySet recomputes the dirty set after an import by comparing
// every non-tombstone issue's live content hash against export_hashes,
// then rebuilds the blocked cache since import may have changed edges.
func (s *Store) RebuildDirtySet(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content_hash FROM issues WHERE status != 'tombstone'`)
	if err != nil {
		return errs.New(errs.KindIO, "rebuild dirty set", err)
	}
	type row struct{ id, hash string }
	var live []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.hash); err != nil {
			rows.Close()
			return errs.New(errs.KindIO, "rebuild dirty set", err)
		}
		live = append(live, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errs.New(errs.KindIO, "rebuild dirty set", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "rebuild dirty set", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dirty_issues`); err != nil {
		return errs.New(errs.KindIO, "rebuild dirty set", err)
	}
	for _, r := range live {
		var exportedHash sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT content_hash FROM export_hashes WHERE issue_id = ?`, r.id).Scan(&exportedHash)
		if err != nil && err != sql.ErrNoRows {
			return errs.New(errs.KindIO, "rebuild dirty set", err)
		}
		if !exportedHash.Valid || exportedHash.String != r.hash {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO dirty_issues (issue_id, marked_at) VALUES (?, ?)`, r.id, formatTime(time.Now().UTC()),
			); err != nil {
				return errs.New(errs.KindIO, "rebuild dirty set", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindIO, "rebuild dirty set", err)
	}
	return s.rebuildBlockedCache(ctx)
}
