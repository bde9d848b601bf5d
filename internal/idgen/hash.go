// Package idgen implements the identifier module: short content-derived
// issue IDs and the resolution of user-typed prefixes back to full IDs.
//
// Neither function touches a database directly — callers supply an
// existence predicate (and, for hierarchical IDs, a child-sequence
// callback) so the algorithms stay pure and independently testable.
package idgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultHashLength is the default number of hex characters (k) in the
// hash component of a generated ID.
const DefaultHashLength = 6

// MinHashLength and MaxHashLength bound the configurable hash length.
const (
	MinHashLength = 4
	MaxHashLength = 12
)

// MaxGenerateAttempts bounds the collision-retry loop in Generate.
const MaxGenerateAttempts = 256

// CanonicalizeTitle lower-cases, trims, and collapses internal whitespace
// runs to a single space, so cosmetic title edits don't perturb the ID.
func CanonicalizeTitle(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	return strings.Join(fields, " ")
}

// NextChildSeq returns the next child sequence number for a parent ID,
// used to build hierarchical suffixes like "bd-abc123.1".
type NextChildSeq func(parentID string) (int, error)

// Exists reports whether id is already present in the store.
type Exists func(id string) bool

// Generate produces a short content-derived ID of the form
// "<prefix>-<hash>" (or "<prefix>-<hash>.<n>" when parentID is non-empty).
//
// length is the number of hex characters in the hash component; 0 selects
// DefaultHashLength. On a collision (exists returns true for the
// candidate) the counter is incremented and the digest recomputed, up to
// MaxGenerateAttempts times.
func Generate(prefix, title, parentID, salt string, ts time.Time, counter, length int, exists Exists, nextChild NextChildSeq) (string, error) {
	if length == 0 {
		length = DefaultHashLength
	}
	if length < MinHashLength || length > MaxHashLength {
		return "", fmt.Errorf("idgen: hash length must be between %d and %d, got %d", MinHashLength, MaxHashLength, length)
	}

	canonical := CanonicalizeTitle(title)

	var suffix string
	if parentID != "" {
		if nextChild == nil {
			return "", fmt.Errorf("idgen: parentID given but no child-sequence callback supplied")
		}
		n, err := nextChild(parentID)
		if err != nil {
			return "", fmt.Errorf("idgen: next child sequence: %w", err)
		}
		suffix = "." + strconv.Itoa(n)
	}

	for attempt := 0; attempt < MaxGenerateAttempts; attempt++ {
		c := counter + attempt
		hash := digest(canonical, ts, c, salt, length)
		candidate := fmt.Sprintf("%s-%s%s", prefix, hash, suffix)
		if exists == nil || !exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("idgen: exhausted %d attempts generating a unique id for %q", MaxGenerateAttempts, title)
}

// digest hashes canonical_title ‖ timestamp ‖ counter ‖ salt and returns
// the first length hex characters.
func digest(canonicalTitle string, ts time.Time, counter int, salt string, length int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x1f%d\x1f%d\x1f%s", canonicalTitle, ts.UnixNano(), counter, salt)
	sum := hex.EncodeToString(h.Sum(nil))
	return sum[:length]
}
