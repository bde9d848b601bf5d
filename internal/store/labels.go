package store

import (
	"context"

	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

func (s *Store) labelsFor(ctx context.Context, issueID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label FROM labels WHERE issue_id = ? ORDER BY label`, issueID)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list labels", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, errs.New(errs.KindIO, "list labels", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AddLabel attaches a label to an issue, marking it dirty for export.
func (s *Store) AddLabel(ctx context.Context, issueID, label string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "add label", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO labels (issue_id, label) VALUES (?, ?)`, issueID, label); err != nil {
		return errs.New(errs.KindIO, "add label", err)
	}
	if err := recordEventTx(ctx, tx, issueID, types.EventLabelAdded, "", label, "", ""); err != nil {
		return err
	}
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindIO, "add label", err)
	}
	return nil
}

// RemoveLabel detaches a label from an issue.
func (s *Store) RemoveLabel(ctx context.Context, issueID, label string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.KindIO, "remove label", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE issue_id = ? AND label = ?`, issueID, label)
	if err != nil {
		return errs.New(errs.KindIO, "remove label", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Newf(errs.KindNotFound, "remove label", "issue %q has no label %q", issueID, label)
	}
	if err := recordEventTx(ctx, tx, issueID, types.EventLabelRemoved, label, "", "", ""); err != nil {
		return err
	}
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindIO, "remove label", err)
	}
	return nil
}
