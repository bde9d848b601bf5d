// Package contenthash computes a deterministic digest over the canonical
// fields of an issue, used by the store to detect drift during sync and
// by the sync engine to decide whether an import record actually changed.
//
// Bookkeeping timestamps (created_at, updated_at, closed_at) are excluded
// on purpose: including them would mark every issue dirty on every
// export/import round-trip, defeating incremental sync.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beads-core/beads/internal/types"
)

// unixOrEmpty renders an optional timestamp as its Unix seconds, or the
// empty string when nil, so the digest input is stable and unambiguous.
func unixOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// Of computes the content hash of an issue: a hex-encoded SHA-256 over the
// canonical field tuple from spec.md §4.2, in fixed order.
func Of(i *types.Issue) string {
	labels := append([]string(nil), i.Labels...)
	sort.Strings(labels)

	deps := append([]*types.Dependency(nil), i.Dependencies...)
	sort.Slice(deps, func(a, b int) bool {
		if deps[a].DependsOnID != deps[b].DependsOnID {
			return deps[a].DependsOnID < deps[b].DependsOnID
		}
		return deps[a].Type < deps[b].Type
	})
	depParts := make([]string, len(deps))
	for idx, d := range deps {
		depParts[idx] = d.DependsOnID + ":" + string(d.Type)
	}

	fields := []string{
		i.ID,
		i.Title,
		i.Description,
		i.Design,
		i.AcceptanceCriteria,
		i.Notes,
		string(i.Status),
		strconv.Itoa(i.Priority),
		string(i.IssueType),
		str(i.Assignee),
		str(i.Owner),
		intOrEmpty(i.EstimatedMinutes),
		unixOrEmpty(i.DueAt),
		unixOrEmpty(i.DeferUntil),
		strings.Join(labels, ","),
		strings.Join(depParts, ","),
		str(i.ExternalRef),
	}

	h := sha256.New()
	for _, f := range fields {
		fmt.Fprintf(h, "%s\x1f", f) // unit separator avoids field-boundary collisions
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Changed reports whether issue i's live content hash differs from a
// previously recorded hash (e.g. from the export_hashes table). An empty
// previous hash always counts as changed.
func Changed(i *types.Issue, previous string) bool {
	return previous == "" || Of(i) != previous
}
