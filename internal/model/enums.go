// Package model holds the core domain objects: data files, the tests that
// own them, and the filter state applied to a test's merged output.
package model

import "fmt"

// TimeMode selects how a data file's raw time values are interpreted.
type TimeMode string

const (
	// TimeAbsolute uses timestamps as-is.
	TimeAbsolute TimeMode = "ABSOLUTE"
	// TimeRelative rebases the series to start at zero.
	TimeRelative TimeMode = "RELATIVE"
	// TimeCustomOffset uses timestamps as-is; the user-defined offset is
	// applied in the shared offset step.
	TimeCustomOffset TimeMode = "CUSTOM_OFFSET"
)

// ParseTimeMode validates a serialized time mode name.
func ParseTimeMode(s string) (TimeMode, error) {
	switch TimeMode(s) {
	case TimeAbsolute, TimeRelative, TimeCustomOffset:
		return TimeMode(s), nil
	}
	return "", fmt.Errorf("unknown time mode %q", s)
}

// JoinStrategy describes how a data file's rows and columns combine with
// its test's accumulating merged table. The empty value means no strategy
// was chosen and the default outer join on plot time applies.
type JoinStrategy string

const (
	JoinUnset          JoinStrategy = ""
	JoinTimeNearest    JoinStrategy = "TIME_NEAREST"
	JoinTimeExact      JoinStrategy = "TIME_EXACT"
	JoinAlternativeKey JoinStrategy = "ALTERNATIVE_KEY"
	JoinAppendSegment  JoinStrategy = "APPEND_SEGMENT"
)

// ParseJoinStrategy validates a serialized join strategy name. The empty
// string maps to JoinUnset.
func ParseJoinStrategy(s string) (JoinStrategy, error) {
	switch JoinStrategy(s) {
	case JoinUnset, JoinTimeNearest, JoinTimeExact, JoinAlternativeKey, JoinAppendSegment:
		return JoinStrategy(s), nil
	}
	return "", fmt.Errorf("unknown join strategy %q", s)
}

// MismatchStrategy is the caller's resolution choice for a header diff.
type MismatchStrategy string

const (
	// MismatchStrict rejects the incoming file outright.
	MismatchStrict MismatchStrategy = "STRICT"
	// MismatchUnion accepts the file; its extra headers become new
	// canonical columns and files lacking them get NaN fill.
	MismatchUnion MismatchStrategy = "UNION"
	// MismatchMap renames the incoming file's columns before adding it.
	MismatchMap MismatchStrategy = "MAP"
)

// CompareMode selects the multi-test comparison layout.
type CompareMode string

const (
	// CompareOverlay plots all tests on a shared time axis.
	CompareOverlay CompareMode = "OVERLAY"
	// CompareConcatenate places tests end to end, separated by a gap.
	CompareConcatenate CompareMode = "CONCATENATE"
)

// ParseCompareMode validates a serialized compare mode name.
func ParseCompareMode(s string) (CompareMode, error) {
	switch CompareMode(s) {
	case CompareOverlay, CompareConcatenate:
		return CompareMode(s), nil
	}
	return "", fmt.Errorf("unknown compare mode %q", s)
}

// PlotTimeColumn is the derived column carrying the fully transformed time
// used as the universal join and sort key within a test's merged table.
const PlotTimeColumn = "_plot_time_"
