// Package types defines the core data model shared by the store, the
// ready/blocked query engine, and the sync engine: issues, dependency
// edges, comments, and the audit event trail.
package types

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the lifecycle state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDeferred   Status = "deferred"
	StatusClosed     Status = "closed"
	StatusTombstone  Status = "tombstone"
)

// IsValid reports whether s is one of the built-in statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusDeferred, StatusClosed, StatusTombstone:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether issues in this status no longer block others.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusTombstone
}

// IssueType categorizes the kind of work an issue represents.
type IssueType string

const (
	TypeTask     IssueType = "task"
	TypeBug      IssueType = "bug"
	TypeFeature  IssueType = "feature"
	TypeEpic     IssueType = "epic"
	TypeChore    IssueType = "chore"
	TypeDocs     IssueType = "docs"
	TypeQuestion IssueType = "question"
)

// IsValid reports whether t is one of the built-in issue types.
func (t IssueType) IsValid() bool {
	switch t {
	case TypeTask, TypeBug, TypeFeature, TypeEpic, TypeChore, TypeDocs, TypeQuestion:
		return true
	default:
		return false
	}
}

// DepType is the kind of relationship a Dependency edge expresses.
type DepType string

const (
	DepBlocks         DepType = "blocks"
	DepRelated        DepType = "related"
	DepParentChild    DepType = "parent_child"
	DepDiscoveredFrom DepType = "discovered_from"
)

// IsValid reports whether d is a known dependency type.
func (d DepType) IsValid() bool {
	switch d {
	case DepBlocks, DepRelated, DepParentChild, DepDiscoveredFrom:
		return true
	default:
		return false
	}
}

// MaxTitleLength is the maximum number of characters (I7) a title may hold.
const MaxTitleLength = 500

// MinPriority and MaxPriority bound the valid priority range (I7), 0 highest.
const (
	MinPriority = 0
	MaxPriority = 4
)

// Issue is the central entity of the store.
type Issue struct {
	ID                 string  `json:"id"`
	ContentHash        string  `json:"content_hash,omitempty"`
	Title              string  `json:"title"`
	Description        string  `json:"description,omitempty"`
	Design             string  `json:"design,omitempty"`
	AcceptanceCriteria string  `json:"acceptance_criteria,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	Status             Status  `json:"status"`
	Priority           int     `json:"priority"`
	IssueType          IssueType `json:"issue_type"`

	Assignee  *string `json:"assignee,omitempty"`
	Owner     *string `json:"owner,omitempty"`
	CreatedBy *string `json:"created_by,omitempty"`

	EstimatedMinutes *int `json:"estimated_minutes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CloseReason     *string    `json:"close_reason,omitempty"`
	ClosedBySession *string    `json:"closed_by_session,omitempty"`

	DueAt      *time.Time `json:"due_at,omitempty"`
	DeferUntil *time.Time `json:"defer_until,omitempty"`

	ExternalRef  *string `json:"external_ref,omitempty"`
	SourceSystem *string `json:"source_system,omitempty"`
	SourceRepo   *string `json:"source_repo,omitempty"`

	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedBy    *string    `json:"deleted_by,omitempty"`
	DeleteReason *string    `json:"delete_reason,omitempty"`

	Ephemeral  bool `json:"ephemeral,omitempty"`
	Pinned     bool `json:"pinned,omitempty"`
	IsTemplate bool `json:"is_template,omitempty"`

	Labels       []string      `json:"labels,omitempty"`
	Dependencies []*Dependency `json:"dependencies,omitempty"`
	Comments     []*Comment    `json:"comments,omitempty"`

	// Unknown carries top-level JSON fields this build doesn't recognize,
	// so round-tripping through a newer or older JSONL writer is lossless.
	Unknown map[string]interface{} `json:"-"`
}

// Dependency is a directed edge from IssueID to DependsOnID.
type Dependency struct {
	IssueID     string    `json:"issue_id"`
	DependsOnID string    `json:"depends_on_id"`
	Type        DepType   `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
	Metadata    string    `json:"metadata,omitempty"`
	ThreadID    string    `json:"thread_id,omitempty"`
}

// Comment is a single note attached to an issue.
type Comment struct {
	ID        int64     `json:"id"`
	IssueID   string    `json:"issue_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType names the kind of change an audit Event records.
type EventType string

const (
	EventCreated         EventType = "issue_created"
	EventUpdated         EventType = "issue_updated"
	EventClosed          EventType = "issue_closed"
	EventDeleted         EventType = "issue_deleted"
	EventDependencyAdded EventType = "dependency_added"
	EventDependencyDrop  EventType = "dependency_removed"
	EventLabelAdded      EventType = "label_added"
	EventLabelRemoved    EventType = "label_removed"
	EventCommentAdded    EventType = "comment_added"
)

// Event is an append-only audit row written by the store for every mutation.
type Event struct {
	ID        int64     `json:"id"`
	IssueID   string    `json:"issue_id"`
	EventType EventType `json:"event_type"`
	Actor     string    `json:"actor,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the invariants Validate can check without a database
// round-trip: I1 (closed_at paired with status=closed) and I7 (priority
// range, title length). The store re-checks these transactionally and adds
// the invariants that require a lookup (I3, I4, I5).
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(i.Title) > MaxTitleLength {
		return fmt.Errorf("title must be %d characters or less", MaxTitleLength)
	}
	if i.Priority < MinPriority || i.Priority > MaxPriority {
		return fmt.Errorf("priority must be between %d and %d", MinPriority, MaxPriority)
	}
	if i.Status != "" && !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %q", i.Status)
	}
	if i.IssueType != "" && !i.IssueType.IsValid() {
		return fmt.Errorf("invalid issue type: %q", i.IssueType)
	}
	if i.EstimatedMinutes != nil && *i.EstimatedMinutes < 0 {
		return fmt.Errorf("estimated_minutes cannot be negative")
	}
	switch i.Status {
	case StatusClosed:
		if i.ClosedAt == nil {
			return fmt.Errorf("closed issues must have closed_at timestamp")
		}
	case StatusTombstone:
		// tombstones may retain their original closed_at; no constraint here.
	default:
		if i.ClosedAt != nil {
			return fmt.Errorf("non-closed issues cannot have closed_at timestamp")
		}
	}
	if !i.UpdatedAt.IsZero() && !i.CreatedAt.IsZero() && i.UpdatedAt.Before(i.CreatedAt) {
		return fmt.Errorf("updated_at cannot precede created_at")
	}
	return nil
}

// IsTombstone reports whether the issue has been soft-deleted (I2).
func (i *Issue) IsTombstone() bool {
	return i.Status == StatusTombstone
}

// ParseHierarchicalID splits an ID of the form "<prefix>-<hash>.<n>.<m>" into
// its base ID, immediate parent ID, and hierarchy depth (0 for a root ID).
func ParseHierarchicalID(id string) (base string, parent string, depth int) {
	parts := strings.Split(id, ".")
	if len(parts) == 1 {
		return id, "", 0
	}
	parent = strings.Join(parts[:len(parts)-1], ".")
	return parts[0], parent, len(parts) - 1
}
