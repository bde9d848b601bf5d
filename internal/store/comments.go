package store

import (
	"context"

	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/types"
)

func (s *Store) commentsFor(ctx context.Context, issueID string) ([]*types.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, issue_id, author, text, created_at FROM comments WHERE issue_id = ? ORDER BY created_at`, issueID)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list comments", err)
	}
	defer rows.Close()

	var out []*types.Comment
	for rows.Next() {
		var c types.Comment
		var createdAtStr string
		if err := rows.Scan(&c.ID, &c.IssueID, &c.Author, &c.Text, &createdAtStr); err != nil {
			return nil, errs.New(errs.KindIO, "list comments", err)
		}
		c.CreatedAt = parseTime(createdAtStr)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// AddComment appends a comment to an issue and marks it dirty.
func (s *Store) AddComment(ctx context.Context, issueID, author, text string) (*types.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.New(errs.KindIO, "add comment", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO comments (issue_id, author, text) VALUES (?, ?, ?)`, issueID, author, text)
	if err != nil {
		return nil, errs.New(errs.KindIO, "add comment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errs.New(errs.KindIO, "add comment", err)
	}

	if err := recordEventTx(ctx, tx, issueID, types.EventCommentAdded, "", "", text, author); err != nil {
		return nil, err
	}
	if err := markDirtyTx(ctx, tx, issueID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errs.New(errs.KindIO, "add comment", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, issue_id, author, text, created_at FROM comments WHERE id = ?`, id)
	var c types.Comment
	var createdAtStr string
	if err := row.Scan(&c.ID, &c.IssueID, &c.Author, &c.Text, &createdAtStr); err != nil {
		return nil, errs.New(errs.KindIO, "add comment", err)
	}
	c.CreatedAt = parseTime(createdAtStr)
	return &c, nil
}
