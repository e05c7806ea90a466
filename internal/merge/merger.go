package merge

import (
	"math"
	"sort"

	"github.com/leapstack-labs/logmerge/internal/frame"
)

// JoinType selects the row-retention behavior of a keyed join.
type JoinType string

const (
	JoinOuter JoinType = "outer"
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
)

// OnTimeNearest joins incoming onto base by nearest time within tolerance
// (inclusive). Both sides are sorted by the time column first. Each base
// row matches the incoming row with the smallest absolute time difference;
// ties break toward the earlier incoming row. Base rows with no match
// within tolerance get NaN for the incoming columns. Incoming columns
// already present on the base side are dropped (base wins).
func OnTimeNearest(base, incoming *frame.Frame, timeCol string, tolerance float64) *frame.Frame {
	if !base.HasColumn(timeCol) || !incoming.HasColumn(timeCol) {
		return attachEmptyColumns(base, incoming, timeCol)
	}

	baseSorted := base.SortBy(timeCol)
	incSorted := incoming.SortBy(timeCol)

	baseTimes, _ := baseSorted.Column(timeCol)
	incTimes, _ := incSorted.Column(timeCol)

	// Usable incoming rows are the non-NaN sorted prefix.
	valid := len(incTimes)
	for valid > 0 && math.IsNaN(incTimes[valid-1]) {
		valid--
	}

	newCols := incomingOnlyColumns(baseSorted, incSorted, timeCol)

	out := baseSorted.Copy()
	for _, name := range newCols {
		src, _ := incSorted.Column(name)
		values := frame.NaNs(baseSorted.NumRows())
		for i, t := range baseTimes {
			j, ok := nearestIndex(incTimes[:valid], t, tolerance)
			if ok {
				values[i] = src[j]
			}
		}
		_ = out.SetColumn(name, values)
	}
	return out
}

// nearestIndex finds the index of the sorted value closest to t within
// tolerance. Ties break toward the earlier index.
func nearestIndex(sortedTimes []float64, t, tolerance float64) (int, bool) {
	if len(sortedTimes) == 0 || math.IsNaN(t) {
		return 0, false
	}
	i := sort.SearchFloat64s(sortedTimes, t)
	best, bestDiff := -1, math.Inf(1)
	if i > 0 {
		if d := math.Abs(t - sortedTimes[i-1]); d < bestDiff {
			best, bestDiff = i-1, d
		}
	}
	if i < len(sortedTimes) {
		if d := math.Abs(sortedTimes[i] - t); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 || bestDiff > tolerance {
		return 0, false
	}
	return best, true
}

// OnTimeExact outer-joins incoming onto base on exact time equality and
// re-sorts the result by time ascending. Duplicate non-key columns from
// the incoming side are dropped (base wins). Rows whose time is NaN never
// match and are carried through unmatched.
func OnTimeExact(base, incoming *frame.Frame, timeCol string) *frame.Frame {
	if !base.HasColumn(timeCol) || !incoming.HasColumn(timeCol) {
		return attachEmptyColumns(base, incoming, timeCol)
	}
	return OnKey(base, incoming, timeCol, JoinOuter).SortBy(timeCol)
}

// OnKey joins incoming onto base on an arbitrary key column. Matching is
// pairwise in row order: each base row consumes the first unconsumed
// incoming row with an equal key. how controls retention of unmatched
// rows: outer keeps both sides, left keeps base only, inner keeps matched
// pairs only. Duplicate non-key columns from the incoming side are dropped.
func OnKey(base, incoming *frame.Frame, keyCol string, how JoinType) *frame.Frame {
	if !base.HasColumn(keyCol) || !incoming.HasColumn(keyCol) {
		return attachEmptyColumns(base, incoming, keyCol)
	}

	baseKeys, _ := base.Column(keyCol)
	incKeys, _ := incoming.Column(keyCol)
	newCols := incomingOnlyColumns(base, incoming, keyCol)

	// Queue of unconsumed incoming row indices per key value. NaN keys
	// never participate.
	pending := make(map[float64][]int)
	for i, k := range incKeys {
		if !math.IsNaN(k) {
			pending[k] = append(pending[k], i)
		}
	}

	consumed := make([]bool, incoming.NumRows())
	matches := make([]int, base.NumRows()) // -1 means unmatched
	for i, k := range baseKeys {
		matches[i] = -1
		if math.IsNaN(k) {
			continue
		}
		if queue := pending[k]; len(queue) > 0 {
			matches[i] = queue[0]
			consumed[queue[0]] = true
			pending[k] = queue[1:]
		}
	}

	out := frame.New()
	baseCols := base.Columns()
	for _, name := range baseCols {
		src, _ := base.Column(name)
		values := make([]float64, 0, base.NumRows())
		for i := 0; i < base.NumRows(); i++ {
			if how == JoinInner && matches[i] < 0 {
				continue
			}
			values = append(values, src[i])
		}
		_ = out.SetColumn(name, values)
	}
	for _, name := range newCols {
		src, _ := incoming.Column(name)
		values := make([]float64, 0, base.NumRows())
		for i := 0; i < base.NumRows(); i++ {
			switch {
			case matches[i] >= 0:
				values = append(values, src[matches[i]])
			case how == JoinInner:
				// Row dropped.
			default:
				values = append(values, math.NaN())
			}
		}
		_ = out.SetColumn(name, values)
	}

	if how != JoinOuter {
		return out
	}

	// Append unmatched incoming rows: key value plus incoming-only columns,
	// NaN for base-only columns.
	leftover := frame.New()
	keep := make([]bool, incoming.NumRows())
	n := 0
	for i := range keep {
		keep[i] = !consumed[i]
		if keep[i] {
			n++
		}
	}
	if n == 0 {
		return out
	}
	for _, name := range append([]string{keyCol}, newCols...) {
		src, _ := incoming.Column(name)
		values := make([]float64, 0, n)
		for i, k := range keep {
			if k {
				values = append(values, src[i])
			}
		}
		_ = leftover.SetColumn(name, values)
	}
	return out.AppendRows(leftover)
}

// AppendAsSegment appends incoming's rows below base's after adding
// timeOffset to the incoming time column, then re-sorts by time. No rows
// are merged or deduplicated: the output row count is the sum of both
// inputs.
func AppendAsSegment(base, incoming *frame.Frame, timeCol string, timeOffset float64) *frame.Frame {
	shifted := incoming.Copy()
	if times, ok := shifted.Column(timeCol); ok && timeOffset != 0 {
		_ = shifted.SetColumn(timeCol, ApplyOffset(times, timeOffset))
	}
	out := base.AppendRows(shifted)
	if out.HasColumn(timeCol) {
		out = out.SortBy(timeCol)
	}
	return out
}

// attachEmptyColumns handles the join-column-missing case: the incoming
// side's new columns are attached entirely NaN-valued rather than failing
// the merge.
func attachEmptyColumns(base, incoming *frame.Frame, joinCol string) *frame.Frame {
	out := base.Copy()
	for _, name := range incomingOnlyColumns(base, incoming, joinCol) {
		_ = out.SetColumn(name, frame.NaNs(base.NumRows()))
	}
	return out
}

// incomingOnlyColumns lists incoming's columns that are neither the join
// column nor already present on the base side.
func incomingOnlyColumns(base, incoming *frame.Frame, joinCol string) []string {
	var out []string
	for _, name := range incoming.Columns() {
		if name != joinCol && !base.HasColumn(name) {
			out = append(out, name)
		}
	}
	return out
}
