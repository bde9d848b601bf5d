package idgen

import (
	"strings"

	"github.com/beads-core/beads/internal/errs"
)

// FindMatching returns every full ID whose hash component starts with
// hashPrefix (case-insensitive). Callers typically back this with an
// indexed LIKE query against the store.
type FindMatching func(hashPrefix string) []string

// Resolve turns user-typed input into exactly one full issue ID.
//
// If input already matches a known full ID (isFullID returns true), it is
// returned unchanged. Otherwise input is treated as a bare hash prefix and
// looked up via findMatching: zero matches is a KindNotFound error, more
// than one is an *errs.AmbiguousError listing every candidate, and exactly
// one resolves cleanly.
func Resolve(input string, isFullID func(id string) bool, findMatching FindMatching) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errs.Newf(errs.KindValidation, "resolve id", "id must not be empty")
	}

	if isFullID != nil && isFullID(input) {
		return input, nil
	}

	candidates := findMatching(input)
	switch len(candidates) {
	case 0:
		return "", errs.Newf(errs.KindNotFound, "resolve id", "no issue matches %q", input)
	case 1:
		return candidates[0], nil
	default:
		return "", &errs.AmbiguousError{Input: input, Candidates: candidates}
	}
}
