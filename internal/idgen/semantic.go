package idgen

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/beads-core/beads/internal/types"
)

// StopWords are common words removed from titles during slug generation.
// These words don't add meaning to the slug.
var StopWords = map[string]bool{
	// Articles
	"a": true, "an": true, "the": true,
	// Prepositions
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "as": true,
	// Conjunctions
	"and": true, "or": true, "but": true, "nor": true,
	// Common verbs that don't add meaning
	"is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true,
	// Other common words
	"this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true,
}

// PriorityPrefixes are words that indicate priority but don't add meaning to the slug.
var PriorityPrefixes = map[string]bool{
	"urgent":   true,
	"critical": true,
	"p0":       true,
	"p1":       true,
	"p2":       true,
	"p3":       true,
	"p4":       true,
	"blocker":  true,
	"hotfix":   true,
}

// typeAbbreviations maps an issue type to the short token used in a
// semantic ID's type segment. Anything not listed falls back to "tsk".
var typeAbbreviations = map[types.IssueType]string{
	types.TypeTask:     "tsk",
	types.TypeBug:      "bug",
	types.TypeFeature:  "feat",
	types.TypeEpic:     "epic",
	types.TypeChore:    "chore",
	types.TypeDocs:     "docs",
	types.TypeQuestion: "q",
}

// nonAlphanumericRegex matches any non-alphanumeric character.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// multipleUnderscoreRegex matches multiple consecutive underscores.
var multipleUnderscoreRegex = regexp.MustCompile(`_+`)

// SemanticIDGenerator produces human-readable slugs for display and for
// the optional semantic-ID naming scheme alongside the hash-based ID.
type SemanticIDGenerator struct {
	maxSlugLength int
}

// NewSemanticIDGenerator creates a new generator with default settings.
func NewSemanticIDGenerator() *SemanticIDGenerator {
	return &SemanticIDGenerator{
		maxSlugLength: 46,
	}
}

// GenerateSlug converts a title to a slug: lowercase, underscore-separated,
// with stop words and priority markers removed.
func (g *SemanticIDGenerator) GenerateSlug(title string) string {
	if title == "" {
		return "untitled"
	}

	slug := strings.ToLower(title)
	slug = nonAlphanumericRegex.ReplaceAllString(slug, " ")
	words := strings.Fields(slug)

	filtered := make([]string, 0, len(words))
	for _, word := range words {
		if !StopWords[word] && !PriorityPrefixes[word] {
			filtered = append(filtered, word)
		}
	}

	if len(filtered) == 0 && len(words) > 0 {
		filtered = []string{words[0]}
	}

	slug = strings.Join(filtered, "_")

	if len(slug) > 0 && !unicode.IsLetter(rune(slug[0])) {
		slug = "n" + slug
	}

	if len(slug) > g.maxSlugLength {
		truncated := slug[:g.maxSlugLength]
		if lastUnderscore := strings.LastIndex(truncated, "_"); lastUnderscore > g.maxSlugLength/2 {
			truncated = truncated[:lastUnderscore]
		}
		slug = truncated
	}

	if len(slug) < 3 {
		slug = slug + strings.Repeat("x", 3-len(slug))
	}

	slug = strings.Trim(slug, "_")
	slug = multipleUnderscoreRegex.ReplaceAllString(slug, "_")

	return slug
}

// GenerateSemanticID builds a "<prefix>-<type>-<slug>" identifier and
// disambiguates against existingIDs with a "_2", "_3", ... suffix.
func (g *SemanticIDGenerator) GenerateSemanticID(prefix string, issueType types.IssueType, title string, existingIDs []string) string {
	return g.GenerateSemanticIDWithCallback(prefix, issueType, title, func(id string) bool {
		return contains(existingIDs, id)
	})
}

// GenerateSemanticIDWithCallback is GenerateSemanticID but checks for
// collisions via a caller-supplied predicate (e.g. backed by the store)
// instead of a pre-fetched slice.
func (g *SemanticIDGenerator) GenerateSemanticIDWithCallback(prefix string, issueType types.IssueType, title string, exists func(id string) bool) string {
	typeAbbrev := typeAbbreviations[issueType]
	if typeAbbrev == "" {
		typeAbbrev = "tsk"
	}

	slug := g.GenerateSlug(title)
	baseID := prefix + "-" + typeAbbrev + "-" + slug

	id := baseID
	suffix := 2
	for exists(id) {
		id = baseID + "_" + strconv.Itoa(suffix)
		suffix++
		if suffix > 99 {
			break
		}
	}

	return id
}

// contains checks if a string is in a slice.
func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
