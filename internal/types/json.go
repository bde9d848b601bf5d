package types

import "encoding/json"

// issueAlias breaks the recursion that would otherwise occur marshaling
// Issue through its own MarshalJSON/UnmarshalJSON methods.
type issueAlias Issue

// knownIssueFields lists every JSON key issueAlias declares, so
// UnmarshalJSON can tell a genuinely unknown top-level field apart from
// one it already captured into a named struct field.
var knownIssueFields = map[string]bool{
	"id": true, "content_hash": true, "title": true, "description": true,
	"design": true, "acceptance_criteria": true, "notes": true,
	"status": true, "priority": true, "issue_type": true,
	"assignee": true, "owner": true, "created_by": true, "estimated_minutes": true,
	"created_at": true, "updated_at": true,
	"closed_at": true, "close_reason": true, "closed_by_session": true,
	"due_at": true, "defer_until": true,
	"external_ref": true, "source_system": true, "source_repo": true,
	"deleted_at": true, "deleted_by": true, "delete_reason": true,
	"ephemeral": true, "pinned": true, "is_template": true,
	"labels": true, "dependencies": true, "comments": true,
}

// MarshalJSON emits the field order declared on Issue when Unknown is
// empty. When Unknown holds fields that aren't already one of the named
// fields, it merges them with the named fields and writes every key in
// sorted order, so the declared order is not kept in that case; the
// unknown fields survive the round trip either way.
func (i *Issue) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal((*issueAlias)(i))
	if err != nil {
		return nil, err
	}
	if len(i.Unknown) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range i.Unknown {
		if knownIssueFields[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON populates every named field, then stashes any top-level
// key it doesn't recognize into Unknown so a round trip through an
// older or newer writer doesn't silently drop data.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var alias issueAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*i = Issue(alias)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if knownIssueFields[k] {
			continue
		}
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		if i.Unknown == nil {
			i.Unknown = map[string]interface{}{}
		}
		i.Unknown[k] = val
	}
	return nil
}
