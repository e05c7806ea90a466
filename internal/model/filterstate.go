package model

import (
	"github.com/leapstack-labs/logmerge/internal/frame"
)

// ChannelFilter bounds a channel's values. A nil bound is unconstrained.
type ChannelFilter struct {
	Min *float64
	Max *float64
}

// FilterState is the per-test filter: a time window, per-channel value
// ranges, and the text/category/unit predicates used by channel pickers.
// It is a value object; "clear" replaces it wholesale.
type FilterState struct {
	TimeMin *float64
	TimeMax *float64

	ChannelFilters map[string]ChannelFilter

	TextSearch     string
	CategoryFilter []string
	UnitFilter     []string

	Enabled bool
}

// NewFilterState creates an enabled filter state with no constraints.
func NewFilterState() *FilterState {
	return &FilterState{
		ChannelFilters: make(map[string]ChannelFilter),
		Enabled:        true,
	}
}

// Apply returns fr narrowed to the rows passing the time window and every
// declared channel range. Channels absent from the table impose no
// constraint. Disabled state or an empty table returns the input
// unchanged. Row order is preserved; the input is never mutated.
func (fs *FilterState) Apply(fr *frame.Frame, timeCol string) *frame.Frame {
	if !fs.Enabled || fr.Empty() {
		return fr
	}

	mask := make([]bool, fr.NumRows())
	for i := range mask {
		mask[i] = true
	}

	if times, ok := fr.Column(timeCol); ok {
		applyRange(mask, times, fs.TimeMin, fs.TimeMax)
	}
	for name, cf := range fs.ChannelFilters {
		if values, ok := fr.Column(name); ok {
			applyRange(mask, values, cf.Min, cf.Max)
		}
	}

	out, err := fr.Filter(mask)
	if err != nil {
		return fr
	}
	return out
}

// applyRange narrows mask to values within [lo, hi]. NaN values fail both
// comparisons and are masked out whenever a bound is set.
func applyRange(mask []bool, values []float64, lo, hi *float64) {
	for i, v := range values {
		if !mask[i] {
			continue
		}
		if lo != nil && !(v >= *lo) {
			mask[i] = false
			continue
		}
		if hi != nil && !(v <= *hi) {
			mask[i] = false
		}
	}
}
