package store

import (
	"context"
	"database/sql"

	"github.com/beads-core/beads/internal/errs"
)

// markDirtyTx marks issueID dirty within an in-flight transaction; every
// mutating operation calls this so the dirty set always reflects exactly
// the issues changed since the last export.
func markDirtyTx(ctx context.Context, tx *sql.Tx, issueID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO dirty_issues (issue_id, marked_at) VALUES (?, ?)
		 ON CONFLICT(issue_id) DO UPDATE SET marked_at = excluded.marked_at`,
		issueID, formatTime(nowUTC()),
	)
	if err != nil {
		return errs.New(errs.KindIO, "mark issue dirty", err)
	}
	return nil
}

// MarkDirty marks one issue dirty outside of any other mutation, e.g. to
// force a re-export.
func (s *Store) MarkDirty(ctx context.Context, issueID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "mark issue dirty", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetDirtyIDs returns every issue ID pending export, oldest-marked first.
func (s *Store) GetDirtyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT issue_id FROM dirty_issues ORDER BY marked_at ASC`)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list dirty issues", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.New(errs.KindIO, "list dirty issues", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ClearDirty removes the given issue IDs from the dirty set. Callers
// should only clear IDs they actually exported, to avoid losing track of
// a concurrent mutation that happened mid-export.
func (s *Store) ClearDirty(ctx context.Context, issueIDs []string) error {
	if len(issueIDs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "clear dirty issues", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM dirty_issues WHERE issue_id = ?`)
	if err != nil {
		return errs.New(errs.KindIO, "clear dirty issues", err)
	}
	defer stmt.Close()

	for _, id := range issueIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return errs.New(errs.KindIO, "clear dirty issues", err)
		}
	}
	return tx.Commit()
}

// DirtyCount reports how many issues are pending export.
func (s *Store) DirtyCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dirty_issues`).Scan(&n)
	if err != nil {
		return 0, errs.New(errs.KindIO, "count dirty issues", err)
	}
	return n, nil
}

// RecordExportHash records the hash last exported for issueID, used by
// the sync engine to skip issues whose content hasn't actually changed.
func (s *Store) RecordExportHash(ctx context.Context, issueID, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO export_hashes (issue_id, content_hash, exported_at) VALUES (?, ?, ?)
		 ON CONFLICT(issue_id) DO UPDATE SET content_hash = excluded.content_hash, exported_at = excluded.exported_at`,
		issueID, hash, formatTime(nowUTC()),
	)
	if err != nil {
		return errs.New(errs.KindIO, "record export hash", err)
	}
	return nil
}

// ExportHash returns the last-exported content hash for issueID, or ""
// if the issue has never been exported.
func (s *Store) ExportHash(ctx context.Context, issueID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM export_hashes WHERE issue_id = ?`, issueID).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errs.New(errs.KindIO, "get export hash", err)
	}
	return hash, nil
}
