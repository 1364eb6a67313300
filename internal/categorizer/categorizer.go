// =============================================================================
// Returns Analyzer - Reason Categorizer
// =============================================================================
//
// This module scores free-text return reason/comment pairs against the
// fixed category registry and assigns the best-scoring category with a
// normalized confidence.
//
// SCORING:
//   score      = 2 * (pattern matches) + 1 * (keyword hits)
//   confidence = score / (2 * pattern count + keyword count)
//
// A result below the 0.2 confidence floor is always reported as
// ("UNCATEGORIZED", 0.0), even when some category scored non-zero. The
// floor drives downstream "uncategorized" reporting and must not drift.
//
// Ties at the top confidence go to the first-declared category in the
// registry. That is an implementation-defined ordering, not a semantic one.
//
// Categorize is pure: no shared mutable state, safe to run across records
// in parallel.
//
// =============================================================================

package categorizer

import (
	"strings"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// confidenceFloor is the minimum confidence for a category assignment to
// stand.
const confidenceFloor = 0.2

// Categorizer assigns return-reason categories using the shared registry.
type Categorizer struct {
	reg *registry.Registry
}

// New creates a Categorizer.
func New(reg *registry.Registry) *Categorizer {
	return &Categorizer{reg: reg}
}

// Categorize scores the combined reason and comment text against every
// category and returns the winner with its confidence in [0, 1]. Empty
// input or a sub-floor best score yields (UNCATEGORIZED, 0.0).
func (c *Categorizer) Categorize(reason, comment string) (string, float64) {
	text := strings.ToLower(strings.TrimSpace(reason + " " + comment))
	if text == "" {
		return registry.Uncategorized, 0.0
	}

	best := registry.Uncategorized
	bestConfidence := 0.0

	for _, category := range c.reg.Categories {
		confidence := score(category, text)

		// Strictly greater keeps the first-declared category on ties.
		if confidence > bestConfidence {
			best = category.Name
			bestConfidence = confidence
		}
	}

	if bestConfidence < confidenceFloor {
		return registry.Uncategorized, 0.0
	}
	return best, bestConfidence
}

// Annotate runs the categorizer over a merged table, populating the
// Category and CategoryConfidence fields in place. This is the final
// annotation pass; no other field is touched.
func (c *Categorizer) Annotate(records []types.ReturnRecord) {
	for i := range records {
		category, confidence := c.Categorize(records[i].ReasonRaw, records[i].CustomerComments)
		records[i].Category = category
		records[i].CategoryConfidence = confidence
	}
}

// score computes the normalized confidence of one category for the text.
func score(category registry.Category, text string) float64 {
	points := 0
	for _, pattern := range category.Patterns {
		if pattern.MatchString(text) {
			points += 2
		}
	}
	for _, keyword := range category.Keywords {
		if strings.Contains(text, keyword) {
			points++
		}
	}

	maxPossible := 2*len(category.Patterns) + len(category.Keywords)
	if maxPossible == 0 {
		return 0.0
	}
	return float64(points) / float64(maxPossible)
}
