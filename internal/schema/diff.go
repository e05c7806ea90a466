// Package schema reconciles column schemas between a test's canonical
// header set and an incoming file: exact diffing, fuzzy rename
// suggestions, and the resolution strategies that apply them.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultFuzzyThreshold is the minimum similarity score (0-100) for a
// rename suggestion.
const DefaultFuzzyThreshold = 80.0

// Diff describes how an incoming file's headers differ from a canonical
// set. It is ephemeral: produced per reconciliation attempt and consumed
// immediately.
type Diff struct {
	// Missing headers are canonical but absent from the incoming file.
	Missing []string `json:"missing"`
	// Extra headers are in the incoming file but not canonical.
	Extra []string `json:"extra"`
	// Matched headers appear in both sets by exact name.
	Matched []string `json:"matched"`
	// FuzzyMatches suggests, per extra header, the most similar missing
	// header scoring at or above the threshold.
	FuzzyMatches map[string]string `json:"fuzzy_matches"`
}

// HasDifferences reports whether any header is missing or extra.
func (d Diff) HasDifferences() bool {
	return len(d.Missing) > 0 || len(d.Extra) > 0
}

// Summary renders a short human-readable description of the diff.
func (d Diff) Summary() string {
	var parts []string
	if len(d.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("Missing %d headers: %s", len(d.Missing), headList(d.Missing)))
	}
	if len(d.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("Extra %d headers: %s", len(d.Extra), headList(d.Extra)))
	}
	if len(d.FuzzyMatches) > 0 {
		parts = append(parts, fmt.Sprintf("Possible renames: %d", len(d.FuzzyMatches)))
	}
	if len(parts) == 0 {
		return "Headers match exactly"
	}
	return strings.Join(parts, "; ")
}

func headList(headers []string) string {
	const limit = 5
	if len(headers) <= limit {
		return strings.Join(headers, ", ")
	}
	return fmt.Sprintf("%s... (+%d more)", strings.Join(headers[:limit], ", "), len(headers)-limit)
}

// ComputeDiff compares incoming headers against a canonical set. The
// exact-set results are sorted lexicographically. Every extra header gets
// at most one fuzzy suggestion: the missing header with the highest
// token-sort similarity at or above threshold (inclusive); equal top
// scores break toward the lexicographically smallest candidate.
func ComputeDiff(canonical, incoming []string, threshold float64) Diff {
	canonSet := toSet(canonical)
	incSet := toSet(incoming)

	var matched, missing, extra []string
	for h := range canonSet {
		if incSet[h] {
			matched = append(matched, h)
		} else {
			missing = append(missing, h)
		}
	}
	for h := range incSet {
		if !canonSet[h] {
			extra = append(extra, h)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	sort.Strings(extra)

	fuzzy := make(map[string]string)
	for _, extraH := range extra {
		best, bestScore := "", 0.0
		for _, missingH := range missing {
			score := TokenSortRatio(extraH, missingH)
			if score >= threshold && score > bestScore {
				best, bestScore = missingH, score
			}
		}
		if best != "" {
			fuzzy[extraH] = best
		}
	}

	return Diff{
		Missing:      missing,
		Extra:        extra,
		Matched:      matched,
		FuzzyMatches: fuzzy,
	}
}

func toSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[h] = true
	}
	return set
}
