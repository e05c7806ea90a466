// Package merge provides the stateless time-alignment math and the join
// strategies that fold one table into another on a shared time or key
// column.
package merge

// RelativeTime rebases a time series so it starts at zero. When
// referenceStart is non-zero it is used as the start instead of the first
// sample. Empty input passes through. The input is not modified.
func RelativeTime(times []float64, referenceStart float64) []float64 {
	if len(times) == 0 {
		return times
	}
	start := referenceStart
	if start == 0 {
		start = times[0]
	}
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = t - start
	}
	return out
}

// ApplyOffset adds offset to every time value, returning a new slice.
func ApplyOffset(times []float64, offset float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = t + offset
	}
	return out
}

// ApplyScale multiplies every time value by scale, returning a new slice.
func ApplyScale(times []float64, scale float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = t * scale
	}
	return out
}

// ConcatenateOffset computes the offset to add to a second series so it
// begins where the first ends, plus gap. A negative gap produces
// intentional overlap.
func ConcatenateOffset(endTime, startTime, gap float64) float64 {
	return (endTime - startTime) + gap
}
