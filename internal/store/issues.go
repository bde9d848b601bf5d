package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/beads-core/beads/internal/contenthash"
	"github.com/beads-core/beads/internal/errs"
	"github.com/beads-core/beads/internal/idgen"
	"github.com/beads-core/beads/internal/types"
)

const issueColumns = `id, content_hash, title, description, design, acceptance_criteria, notes,
	status, priority, issue_type, assignee, owner, created_by, estimated_minutes,
	created_at, updated_at, closed_at, close_reason, closed_by_session,
	due_at, defer_until, external_ref, source_system, source_repo,
	deleted_at, deleted_by, delete_reason, ephemeral, pinned, is_template`

// Create inserts a new issue, generating its ID from the title via the
// identifier module, and records an EventCreated audit row.
func (s *Store) Create(ctx context.Context, issue *types.Issue) (*types.Issue, error) {
	if issue.Status == "" {
		issue.Status = types.StatusOpen
	}
	if issue.IssueType == "" {
		issue.IssueType = types.TypeTask
	}
	now := time.Now().UTC()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = issue.CreatedAt

	if err := issue.Validate(); err != nil {
		return nil, errs.New(errs.KindValidation, "create issue", err)
	}

	if issue.ID == "" {
		id, err := s.generateID(ctx, issue.Title, "")
		if err != nil {
			return nil, errs.New(errs.KindIO, "create issue", err)
		}
		issue.ID = id
	}
	issue.ContentHash = contenthash.Of(issue)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.New(errs.KindIO, "create issue", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO issues (`+issueColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		issue.ID, issue.ContentHash, issue.Title, issue.Description, issue.Design, issue.AcceptanceCriteria, issue.Notes,
		string(issue.Status), issue.Priority, string(issue.IssueType), issue.Assignee, issue.Owner, issue.CreatedBy, issue.EstimatedMinutes,
		formatTime(issue.CreatedAt), formatTime(issue.UpdatedAt), formatNullTime(issue.ClosedAt), issue.CloseReason, issue.ClosedBySession,
		formatNullTime(issue.DueAt), formatNullTime(issue.DeferUntil), issue.ExternalRef, issue.SourceSystem, issue.SourceRepo,
		formatNullTime(issue.DeletedAt), issue.DeletedBy, issue.DeleteReason, boolInt(issue.Ephemeral), boolInt(issue.Pinned), boolInt(issue.IsTemplate),
	); err != nil {
		return nil, errs.New(errs.KindConflict, "create issue", err)
	}

	for _, label := range issue.Labels {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO labels (issue_id, label) VALUES (?, ?)`, issue.ID, label); err != nil {
			return nil, errs.New(errs.KindIO, "create issue: add label", err)
		}
	}

	if err := recordEventTx(ctx, tx, issue.ID, types.EventCreated, "", "", string(issue.Status), ""); err != nil {
		return nil, err
	}
	if err := markDirtyTx(ctx, tx, issue.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.New(errs.KindIO, "create issue", err)
	}

	return s.Get(ctx, issue.ID)
}

// generateID produces a unique short ID for title, retrying against the
// live issues table via idgen.Generate's exists predicate.
func (s *Store) generateID(ctx context.Context, title, parentID string) (string, error) {
	exists := func(id string) bool {
		var n int
		_ = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM issues WHERE id = ?`, id).Scan(&n)
		return n > 0
	}
	var nextChild idgen.NextChildSeq
	if parentID != "" {
		nextChild = func(parent string) (int, error) {
			return s.childCounterNext(ctx, parent)
		}
	}
	return idgen.Generate(s.prefix, title, parentID, "", time.Now().UTC(), 0, 0, exists, nextChild)
}

// Get fetches a single issue, with its labels and dependencies populated.
func (s *Store) Get(ctx context.Context, id string) (*types.Issue, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "get issue", "issue %q not found", id)
	}
	if err != nil {
		return nil, errs.New(errs.KindIO, "get issue", err)
	}

	labels, err := s.labelsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	issue.Labels = labels

	deps, err := s.dependenciesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	issue.Dependencies = deps

	comments, err := s.commentsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	issue.Comments = comments

	return issue, nil
}

// Update applies a partial field set to an existing issue, re-validates,
// bumps updated_at, recomputes the content hash, and marks the issue
// dirty for export.
func (s *Store) Update(ctx context.Context, id string, mutate func(*types.Issue) error) (*types.Issue, error) {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := contenthash.Of(issue)

	if err := mutate(issue); err != nil {
		return nil, errs.New(errs.KindValidation, "update issue", err)
	}
	issue.UpdatedAt = time.Now().UTC()

	if err := issue.Validate(); err != nil {
		return nil, errs.New(errs.KindValidation, "update issue", err)
	}
	issue.ContentHash = contenthash.Of(issue)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.New(errs.KindIO, "update issue", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE issues SET
		content_hash=?, title=?, description=?, design=?, acceptance_criteria=?, notes=?,
		status=?, priority=?, issue_type=?, assignee=?, owner=?, estimated_minutes=?,
		updated_at=?, closed_at=?, close_reason=?, closed_by_session=?,
		due_at=?, defer_until=?, external_ref=?, source_system=?, source_repo=?,
		ephemeral=?, pinned=?, is_template=?
		WHERE id=?`,
		issue.ContentHash, issue.Title, issue.Description, issue.Design, issue.AcceptanceCriteria, issue.Notes,
		string(issue.Status), issue.Priority, string(issue.IssueType), issue.Assignee, issue.Owner, issue.EstimatedMinutes,
		formatTime(issue.UpdatedAt), formatNullTime(issue.ClosedAt), issue.CloseReason, issue.ClosedBySession,
		formatNullTime(issue.DueAt), formatNullTime(issue.DeferUntil), issue.ExternalRef, issue.SourceSystem, issue.SourceRepo,
		boolInt(issue.Ephemeral), boolInt(issue.Pinned), boolInt(issue.IsTemplate),
		id,
	)
	if err != nil {
		return nil, errs.New(errs.KindConflict, "update issue", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.Newf(errs.KindNotFound, "update issue", "issue %q not found", id)
	}

	if before != issue.ContentHash {
		if err := recordEventTx(ctx, tx, id, types.EventUpdated, before, issue.ContentHash, "", ""); err != nil {
			return nil, err
		}
		if err := markDirtyTx(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.New(errs.KindIO, "update issue", err)
	}

	if err := s.rebuildBlockedCache(ctx); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Close marks an issue closed (I1: requires closed_at) and rebuilds the
// blocked cache, since closing an issue can unblock its dependents.
func (s *Store) Close(ctx context.Context, id, reason, closedBySession string) (*types.Issue, error) {
	now := time.Now().UTC()
	return s.Update(ctx, id, func(i *types.Issue) error {
		i.Status = types.StatusClosed
		i.ClosedAt = &now
		if reason != "" {
			i.CloseReason = &reason
		}
		if closedBySession != "" {
			i.ClosedBySession = &closedBySession
		}
		return nil
	})
}

// Delete soft-deletes an issue by converting it to a tombstone (I2):
// the title becomes "(deleted)", description/design/acceptance
// criteria/notes are cleared, and deleted_at/by/reason are recorded,
// preserving the ID for dependency and history integrity.
func (s *Store) Delete(ctx context.Context, id, deletedBy, reason string) error {
	now := time.Now().UTC()
	_, err := s.Update(ctx, id, func(i *types.Issue) error {
		i.Status = types.StatusTombstone
		i.Title = "(deleted)"
		i.Description = ""
		i.Design = ""
		i.AcceptanceCriteria = ""
		i.Notes = ""
		i.DeletedAt = &now
		if deletedBy != "" {
			i.DeletedBy = &deletedBy
		}
		if reason != "" {
			i.DeleteReason = &reason
		}
		return nil
	})
	return err
}

// List returns issues matching a filter, ordered newest-first.
type ListFilter struct {
	Status    types.Status
	IssueType types.IssueType
	Assignee  string
	Label     string
	Limit     int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*types.Issue, error) {
	query := `SELECT DISTINCT i.` + columnsPrefixed("i") + ` FROM issues i`
	var args []any
	var where []string

	if f.Label != "" {
		query += ` JOIN labels l ON l.issue_id = i.id`
		where = append(where, `l.label = ?`)
		args = append(args, f.Label)
	}
	if f.Status != "" {
		where = append(where, `i.status = ?`)
		args = append(args, string(f.Status))
	}
	if f.IssueType != "" {
		where = append(where, `i.issue_type = ?`)
		args = append(args, string(f.IssueType))
	}
	if f.Assignee != "" {
		where = append(where, `i.assignee = ?`)
		args = append(args, f.Assignee)
	}
	if len(where) > 0 {
		query += ` WHERE ` + joinAnd(where)
	}
	query += ` ORDER BY i.created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.New(errs.KindIO, "list issues", err)
	}
	defer rows.Close()

	var out []*types.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, errs.New(errs.KindIO, "list issues", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// Search performs a simple substring search over title/description.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]*types.Issue, error) {
	q := `SELECT ` + issueColumns + ` FROM issues WHERE title LIKE ? OR description LIKE ? ORDER BY created_at DESC`
	if limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, limit)
	}
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, q, like, like)
	if err != nil {
		return nil, errs.New(errs.KindIO, "search issues", err)
	}
	defer rows.Close()

	var out []*types.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, errs.New(errs.KindIO, "search issues", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

func columnsPrefixed(alias string) string {
	cols := []string{"id", "content_hash", "title", "description", "design", "acceptance_criteria", "notes",
		"status", "priority", "issue_type", "assignee", "owner", "created_by", "estimated_minutes",
		"created_at", "updated_at", "closed_at", "close_reason", "closed_by_session",
		"due_at", "defer_until", "external_ref", "source_system", "source_repo",
		"deleted_at", "deleted_by", "delete_reason", "ephemeral", "pinned", "is_template"}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}

func joinAnd(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " AND "
		}
		out += c
	}
	return out
}
