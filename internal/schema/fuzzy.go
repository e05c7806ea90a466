package schema

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSortRatio scores the similarity of two strings on a 0-100 scale.
// Both sides are lowercased, split into alphanumeric tokens, sorted, and
// rejoined before comparison, so token order does not matter: "Pressure
// Main" and "Main Pressure" score as identical.
func TokenSortRatio(a, b string) float64 {
	return ratio(tokenSort(a), tokenSort(b))
}

func tokenSort(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the normalized indel similarity of two strings: the share of
// characters that survive when transforming one into the other with
// insertions and deletions only.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	common := lcsLength(ra, rb)
	return 100 * float64(2*common) / float64(total)
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
