package store

import (
	"database/sql"
	"time"

	"github.com/beads-core/beads/internal/types"
)

const timeLayout = "2006-01-02 15:04:05"

func nowUTC() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	layouts := []string{timeLayout, time.RFC3339, "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanIssue scans one row selected with issueColumns, in order.
func scanIssue(row rowScanner) (*types.Issue, error) {
	return scanIssueExtra(row)
}

// scanIssueWithBlockedBy scans one row selected with issueColumns plus a
// trailing blocked_by TEXT column, as used by GetBlockedIssues.
func scanIssueWithBlockedBy(row rowScanner) (*types.Issue, string, error) {
	var blockedBy string
	issue, err := scanIssueExtra(row, &blockedBy)
	return issue, blockedBy, err
}

// scanIssueExtra scans the fixed issueColumns set, followed by any
// caller-supplied extra destinations appended after the last column.
func scanIssueExtra(row rowScanner, extra ...any) (*types.Issue, error) {
	var issue types.Issue
	var createdAtStr, updatedAtStr string
	var closedAtStr, dueAtStr, deferUntilStr, deletedAtStr sql.NullString
	var assignee, owner, createdBy, closeReason, closedBySession sql.NullString
	var externalRef, sourceSystem, sourceRepo, deletedBy, deleteReason sql.NullString
	var estimatedMinutes sql.NullInt64
	var ephemeral, pinned, isTemplate int

	dest := []any{
		&issue.ID, &issue.ContentHash, &issue.Title, &issue.Description, &issue.Design, &issue.AcceptanceCriteria, &issue.Notes,
		&issue.Status, &issue.Priority, &issue.IssueType, &assignee, &owner, &createdBy, &estimatedMinutes,
		&createdAtStr, &updatedAtStr, &closedAtStr, &closeReason, &closedBySession,
		&dueAtStr, &deferUntilStr, &externalRef, &sourceSystem, &sourceRepo,
		&deletedAtStr, &deletedBy, &deleteReason, &ephemeral, &pinned, &isTemplate,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	issue.CreatedAt = parseTime(createdAtStr)
	issue.UpdatedAt = parseTime(updatedAtStr)
	issue.ClosedAt = parseNullTime(closedAtStr)
	issue.DueAt = parseNullTime(dueAtStr)
	issue.DeferUntil = parseNullTime(deferUntilStr)
	issue.DeletedAt = parseNullTime(deletedAtStr)

	if assignee.Valid {
		issue.Assignee = &assignee.String
	}
	if owner.Valid {
		issue.Owner = &owner.String
	}
	if createdBy.Valid {
		issue.CreatedBy = &createdBy.String
	}
	if closeReason.Valid {
		issue.CloseReason = &closeReason.String
	}
	if closedBySession.Valid {
		issue.ClosedBySession = &closedBySession.String
	}
	if externalRef.Valid {
		issue.ExternalRef = &externalRef.String
	}
	if sourceSystem.Valid {
		issue.SourceSystem = &sourceSystem.String
	}
	if sourceRepo.Valid {
		issue.SourceRepo = &sourceRepo.String
	}
	if deletedBy.Valid {
		issue.DeletedBy = &deletedBy.String
	}
	if deleteReason.Valid {
		issue.DeleteReason = &deleteReason.String
	}
	if estimatedMinutes.Valid {
		mins := int(estimatedMinutes.Int64)
		issue.EstimatedMinutes = &mins
	}
	issue.Ephemeral = ephemeral != 0
	issue.Pinned = pinned != 0
	issue.IsTemplate = isTemplate != 0

	return &issue, nil
}
