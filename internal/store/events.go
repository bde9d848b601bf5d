package store

import (
	"context"
	"database/sql"

	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

// recordEventTx appends one audit row inside an in-flight transaction.
// Callers pass empty strings for fields that don't apply to the event.
func recordEventTx(ctx context.Context, tx *sql.Tx, issueID string, eventType types.EventType, oldValue, newValue, comment, actor string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO events (issue_id, event_type, actor, old_value, new_value, comment) VALUES (?,?,?,?,?,?)`,
		issueID, string(eventType), actor, nilIfEmpty(oldValue), nilIfEmpty(newValue), nilIfEmpty(comment),
	)
	if err != nil {
		return errs.New(errs.KindIO, "record event", err)
	}
	return nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Events returns the audit trail for an issue, oldest first.
func (s *Store) Events(ctx context.Context, issueID string) ([]*types.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, issue_id, event_type, actor, old_value, new_value, comment, created_at
		 FROM events WHERE issue_id = ? ORDER BY created_at`, issueID)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list events", err)
	}
	defer rows.Close()

	var out []*types.Event
	for rows.Next() {
		var e types.Event
		var old, new_, comment sql.NullString
		var createdAtStr string
		if err := rows.Scan(&e.ID, &e.IssueID, &e.EventType, &e.Actor, &old, &new_, &comment, &createdAtStr); err != nil {
			return nil, errs.New(errs.KindIO, "list events", err)
		}
		e.OldValue = old.String
		e.NewValue = new_.String
		e.Comment = comment.String
		e.CreatedAt = parseTime(createdAtStr)
		out = append(out, &e)
	}
	return out, rows.Err()
}
