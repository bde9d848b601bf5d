// Package sync implements the JSONL export/import protocol: streaming
// one issue per line out of the store, and reading such a stream back
// in under a configurable conflict and orphan policy.
package sync

import (
	"time"
)

// ConflictPolicy decides what import does when an incoming record's ID
// already exists with a different content hash.
type ConflictPolicy string

const (
	PolicyPreferIncoming ConflictPolicy = "prefer_incoming"
	PolicyPreferExisting ConflictPolicy = "prefer_existing"
	PolicyNewestWins     ConflictPolicy = "newest_wins"
)

// IsValid reports whether p is a recognized conflict policy.
func (p ConflictPolicy) IsValid() bool {
	switch p {
	case PolicyPreferIncoming, PolicyPreferExisting, PolicyNewestWins:
		return true
	default:
		return false
	}
}

// OrphanPolicy decides what import does with a dependency edge whose
// target ID has no matching issue.
type OrphanPolicy string

const (
	OrphanKeep   OrphanPolicy = "keep"
	OrphanDrop   OrphanPolicy = "drop"
	OrphanStrict OrphanPolicy = "strict"
)

// IsValid reports whether p is a recognized orphan policy.
func (p OrphanPolicy) IsValid() bool {
	switch p {
	case OrphanKeep, OrphanDrop, OrphanStrict:
		return true
	default:
		return false
	}
}

// Manifest is the sidecar file written next to an export, so a partial
// or interrupted export is never mistaken for a complete one.
type Manifest struct {
	ExportedAt time.Time `json:"exported_at"`
	IssueCount int       `json:"issue_count"`
	Full       bool      `json:"full"`
}
