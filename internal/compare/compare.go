// Package compare lays out several tests' merged tables for side-by-side
// plotting: overlaid on a shared time axis, or concatenated end to end
// with a configurable gap.
package compare

import (
	"math"

	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/merge"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// Comparer prepares multiple tests for comparison plotting.
type Comparer struct {
	Mode model.CompareMode
	Gap  float64
}

// NewComparer creates a comparer for the given mode and gap.
func NewComparer(mode model.CompareMode, gap float64) *Comparer {
	return &Comparer{Mode: mode, Gap: gap}
}

// Prepare returns, per test id, that test's filtered merged table
// restricted to the plot-time column plus the requested channels. In
// OVERLAY mode tables are returned unmodified. In CONCATENATE mode each
// subsequent test's plot time is shifted so tests follow one another
// separated by the gap; tests with empty tables are skipped entirely and
// advance no offset.
func (c *Comparer) Prepare(tests []*model.Test, channels []string) map[string]*frame.Frame {
	out := make(map[string]*frame.Frame)
	cumulative := 0.0
	first := true

	for _, t := range tests {
		merged := t.MergedFrame(true)
		if merged.Empty() {
			continue
		}
		prepared := merged.Select(append([]string{model.PlotTimeColumn}, channels...))
		times, ok := prepared.Column(model.PlotTimeColumn)
		if !ok || len(times) == 0 {
			continue
		}

		if c.Mode == model.CompareConcatenate {
			if !first {
				_ = prepared.SetColumn(model.PlotTimeColumn, merge.ApplyOffset(times, cumulative))
				times, _ = prepared.Column(model.PlotTimeColumn)
			}
			cumulative = seriesMax(times) + c.Gap
			first = false
		}

		out[t.ID] = prepared
	}
	return out
}

// CombinedRange returns the overall time extent of the comparison. OVERLAY
// spans the minimum and maximum across all tests' own ranges. CONCATENATE
// spans zero to the sum of the laid-out tests' filtered durations plus the
// gaps between them; a test whose filtered table is empty contributes
// neither duration nor gap, exactly as Prepare skips it. With no tests the
// range defaults to (0, 1).
func (c *Comparer) CombinedRange(tests []*model.Test) (float64, float64) {
	if len(tests) == 0 {
		return 0, 1
	}

	if c.Mode == model.CompareConcatenate {
		cumulative := 0.0
		first := true
		for _, t := range tests {
			fr := t.MergedFrame(true)
			if fr.Empty() {
				continue
			}
			times, ok := fr.Column(model.PlotTimeColumn)
			if !ok {
				continue
			}
			lo, hi, ok := seriesExtent(times)
			if !ok {
				continue
			}
			if !first {
				cumulative += c.Gap
			}
			cumulative += hi - lo
			first = false
		}
		return 0, cumulative
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range tests {
		tLo, tHi := t.TimeRange()
		lo = math.Min(lo, tLo)
		hi = math.Max(hi, tHi)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

// ConcatenateOffset computes the plot-time offset that places test b
// immediately after test a, plus gap, using each test's transformed time
// extrema.
func ConcatenateOffset(a, b *model.Test, gap float64) float64 {
	_, endA := a.TimeRange()
	startB, _ := b.TimeRange()
	return merge.ConcatenateOffset(endA, startB, gap)
}

// seriesExtent returns the finite min and max of a series, or ok=false
// when no finite values exist.
func seriesExtent(values []float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}

func seriesMax(values []float64) float64 {
	out := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && v > out {
			out = v
		}
	}
	if math.IsInf(out, -1) {
		return 0
	}
	return out
}
