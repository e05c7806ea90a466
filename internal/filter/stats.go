package filter

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/leapstack-labs/logmerge/internal/frame"
)

// Stats summarizes a channel's finite values.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
	Count  int
}

// finiteValues returns the column's non-NaN values, or nil when the
// column is absent or all NaN.
func finiteValues(fr *frame.Frame, name string) []float64 {
	values, ok := fr.Column(name)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ChannelRange returns the min and max of a channel's finite values, or
// (0, 1) when the channel has none. Slider widgets need a non-degenerate
// default range.
func ChannelRange(fr *frame.Frame, name string) (float64, float64) {
	vals := finiteValues(fr, name)
	if len(vals) == 0 {
		return 0, 1
	}
	return floats.Min(vals), floats.Max(vals)
}

// ChannelStats computes summary statistics over a channel's finite
// values. Returns false when the channel is absent or all NaN.
func ChannelStats(fr *frame.Frame, name string) (Stats, bool) {
	vals := finiteValues(fr, name)
	if len(vals) == 0 {
		return Stats{}, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return Stats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(vals, nil),
		StdDev: stat.StdDev(vals, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Count:  len(vals),
	}, true
}

// ChannelMask reports, per row, whether the channel's value falls inside
// [lo, hi]. Nil bounds are unconstrained; NaN values fail any bound. An
// absent channel yields an all-true mask.
func ChannelMask(fr *frame.Frame, name string, lo, hi *float64) []bool {
	mask := make([]bool, fr.NumRows())
	values, ok := fr.Column(name)
	if !ok {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	for i, v := range values {
		if math.IsNaN(v) {
			mask[i] = lo == nil && hi == nil
			continue
		}
		mask[i] = (lo == nil || v >= *lo) && (hi == nil || v <= *hi)
	}
	return mask
}

// TimeRangeOf returns the finite extent of the named time column, or
// (0, 0) when it has no finite values.
func TimeRangeOf(fr *frame.Frame, timeCol string) (float64, float64) {
	vals := finiteValues(fr, timeCol)
	if len(vals) == 0 {
		return 0, 0
	}
	return floats.Min(vals), floats.Max(vals)
}

// SnapToNiceRange widens [lo, hi] to bounds on a 1/2/5 decade grid, for
// readable slider endpoints. A degenerate range widens by one step.
func SnapToNiceRange(lo, hi float64) (float64, float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	step := niceStep(span / 10)
	outLo := math.Floor(lo/step) * step
	outHi := math.Ceil(hi/step) * step
	if outLo == outHi {
		outLo -= step
		outHi += step
	}
	return outLo, outHi
}

// niceStep rounds x up to the nearest 1, 2, or 5 times a power of ten.
func niceStep(x float64) float64 {
	if x <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(x))
	base := math.Pow(10, exp)
	frac := x / base
	switch {
	case frac <= 1:
		return base
	case frac <= 2:
		return 2 * base
	case frac <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}
