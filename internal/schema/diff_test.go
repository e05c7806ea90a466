package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeDiff_Identical(t *testing.T) {
	headers := []string{"Time", "Speed", "Pressure"}
	diff := ComputeDiff(headers, headers, DefaultFuzzyThreshold)

	if diff.HasDifferences() {
		t.Error("identical header sets should have no differences")
	}
	want := []string{"Pressure", "Speed", "Time"}
	if !cmp.Equal(diff.Matched, want) {
		t.Errorf("Matched = %v, want %v", diff.Matched, want)
	}
	if diff.Summary() != "Headers match exactly" {
		t.Errorf("Summary = %q", diff.Summary())
	}
}

func TestComputeDiff_Disjoint(t *testing.T) {
	diff := ComputeDiff([]string{"Alpha", "Beta"}, []string{"Gamma", "Delta"}, DefaultFuzzyThreshold)

	if !diff.HasDifferences() {
		t.Error("disjoint sets should differ")
	}
	if !cmp.Equal(diff.Missing, []string{"Alpha", "Beta"}) {
		t.Errorf("Missing = %v", diff.Missing)
	}
	if !cmp.Equal(diff.Extra, []string{"Delta", "Gamma"}) {
		t.Errorf("Extra = %v", diff.Extra)
	}
	if len(diff.Matched) != 0 {
		t.Errorf("Matched = %v, want empty", diff.Matched)
	}
}

func TestComputeDiff_FuzzySuggestion(t *testing.T) {
	canonical := []string{"Time", "Engine Speed"}
	incoming := []string{"Time", "Speed Engine"}
	diff := ComputeDiff(canonical, incoming, DefaultFuzzyThreshold)

	if got := diff.FuzzyMatches["Speed Engine"]; got != "Engine Speed" {
		t.Errorf("FuzzyMatches = %v", diff.FuzzyMatches)
	}
}

func TestComputeDiff_ThresholdInclusive(t *testing.T) {
	// "abcde" vs "abcdz" scores exactly 80.
	canonical := []string{"abcde"}
	incoming := []string{"abcdz"}

	diff := ComputeDiff(canonical, incoming, 80)
	if diff.FuzzyMatches["abcdz"] != "abcde" {
		t.Errorf("score at threshold should match, got %v", diff.FuzzyMatches)
	}

	diff = ComputeDiff(canonical, incoming, 80.1)
	if len(diff.FuzzyMatches) != 0 {
		t.Errorf("score below threshold should not match, got %v", diff.FuzzyMatches)
	}
}

func TestComputeDiff_TieBreaksLexicographically(t *testing.T) {
	// Both candidates score the same against "abcd".
	canonical := []string{"abcy", "abcx"}
	incoming := []string{"abcd"}

	diff := ComputeDiff(canonical, incoming, 70)
	if got := diff.FuzzyMatches["abcd"]; got != "abcx" {
		t.Errorf("tie should break to lexicographically smallest, got %q", got)
	}
}

func TestDiff_Summary_Truncation(t *testing.T) {
	canonical := []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7"}
	diff := ComputeDiff(canonical, nil, DefaultFuzzyThreshold)

	summary := diff.Summary()
	if !strings.Contains(summary, "Missing 7 headers") {
		t.Errorf("Summary = %q", summary)
	}
	if !strings.Contains(summary, "(+2 more)") {
		t.Errorf("Summary should truncate after 5 headers: %q", summary)
	}
}
