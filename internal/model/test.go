package model

import (
	"math"

	"github.com/google/uuid"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/merge"
)

// DefaultTestColor is the plot color assigned to new tests.
const DefaultTestColor = "#1f77b4"

// Test is an ordered collection of data files sharing a canonical header
// schema. It owns the merge of its files into one time-ordered table and
// the filter state applied to that table.
type Test struct {
	ID          string
	Name        string
	Description string

	DataFiles []*DataFile

	// CanonicalHeaders is the union of all member files' headers in
	// first-seen order. Recomputed on every membership change.
	CanonicalHeaders []string
	// CanonicalMetadata keeps the first metadata seen per header; later
	// files never overwrite it.
	CanonicalMetadata map[string]*channel.Metadata

	PrimaryTimeColumn string
	FilterState       *FilterState
	CompareTimeOffset float64
	Color             string
}

// NewTest creates an empty test with a fresh id.
func NewTest(name string) *Test {
	return &Test{
		ID:                uuid.NewString(),
		Name:              name,
		CanonicalMetadata: make(map[string]*channel.Metadata),
		FilterState:       NewFilterState(),
		Color:             DefaultTestColor,
	}
}

// AddDataFile appends a data file and recomputes the canonical schema as
// one atomic step.
func (t *Test) AddDataFile(f *DataFile) {
	t.DataFiles = append(t.DataFiles, f)
	t.updateCanonicalHeaders()
}

// RemoveDataFile detaches a data file by id. Returns false if no file with
// that id is owned by the test.
func (t *Test) RemoveDataFile(fileID string) bool {
	for i, f := range t.DataFiles {
		if f.ID == fileID {
			t.DataFiles = append(t.DataFiles[:i], t.DataFiles[i+1:]...)
			t.updateCanonicalHeaders()
			return true
		}
	}
	return false
}

// DataFile returns the owned data file with the given id, or nil.
func (t *Test) DataFile(fileID string) *DataFile {
	for _, f := range t.DataFiles {
		if f.ID == fileID {
			return f
		}
	}
	return nil
}

// updateCanonicalHeaders recomputes the canonical schema from current
// membership. Existing canonical order is preserved for headers that
// remain; new headers append in file order.
func (t *Test) updateCanonicalHeaders() {
	present := make(map[string]bool)
	for _, f := range t.DataFiles {
		for _, h := range f.Headers {
			present[h] = true
		}
	}

	var headers []string
	seen := make(map[string]bool)
	for _, h := range t.CanonicalHeaders {
		if present[h] && !seen[h] {
			headers = append(headers, h)
			seen[h] = true
		}
	}
	for _, f := range t.DataFiles {
		for _, h := range f.Headers {
			if !seen[h] {
				headers = append(headers, h)
				seen[h] = true
			}
		}
	}
	t.CanonicalHeaders = headers

	for _, f := range t.DataFiles {
		for h, meta := range f.ChannelMetadata {
			if _, ok := t.CanonicalMetadata[h]; !ok {
				t.CanonicalMetadata[h] = meta
			}
		}
	}
}

// MergedFrame folds all owned data files into one table keyed by the
// derived plot-time column. Files are processed in order: the first seeds
// the result, each subsequent file joins in according to its own strategy
// (default: outer join on plot time, base wins on duplicate columns). The
// result is sorted by plot time; the test's filter state is applied when
// applyFilter is true and filtering is enabled. A file whose frame lacks
// the time column contributes all-NaN columns instead of failing the merge.
func (t *Test) MergedFrame(applyFilter bool) *frame.Frame {
	if len(t.DataFiles) == 0 {
		return frame.New()
	}

	timeCol := t.PrimaryTimeColumn
	if timeCol == "" {
		timeCol = t.DataFiles[0].TimeColumn
	}

	var result *frame.Frame
	for _, f := range t.DataFiles {
		if f.Frame == nil {
			continue
		}
		part := t.prepareFrame(f, timeCol)
		if result == nil {
			result = part
			continue
		}
		switch f.JoinStrategy {
		case JoinAppendSegment:
			// The file's own time offset is already baked into plot time.
			result = merge.AppendAsSegment(result, part, PlotTimeColumn, 0)
		case JoinTimeNearest:
			result = merge.OnTimeNearest(result, part, PlotTimeColumn, f.JoinTolerance)
		case JoinAlternativeKey:
			if f.JoinKey != "" {
				result = merge.OnKey(result, part, f.JoinKey, merge.JoinOuter)
			} else {
				result = merge.OnTimeExact(result, part, PlotTimeColumn)
			}
		default:
			result = merge.OnTimeExact(result, part, PlotTimeColumn)
		}
	}

	if result == nil {
		return frame.New()
	}
	if result.HasColumn(PlotTimeColumn) {
		result = result.SortBy(PlotTimeColumn)
	}
	if applyFilter && t.FilterState != nil && t.FilterState.Enabled {
		result = t.FilterState.Apply(result, PlotTimeColumn)
	}
	return result
}

// prepareFrame copies a file's table with the test's time column replaced
// by the derived plot-time column. The plot time comes from the file's own
// transform when available, otherwise the raw column values stand in.
func (t *Test) prepareFrame(f *DataFile, timeCol string) *frame.Frame {
	part := f.Frame.Copy()
	if !part.HasColumn(timeCol) {
		return part
	}
	plotTime := f.TimeData()
	if plotTime == nil || len(plotTime) != part.NumRows() {
		plotTime = part.ColumnCopy(timeCol)
	}
	part.DropColumn(timeCol)
	_ = part.SetColumn(PlotTimeColumn, plotTime)
	return part
}

// TimeRange returns the overall transformed time extent across all owned
// files, or (0, 0) when the test has no data.
func (t *Test) TimeRange() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range t.DataFiles {
		fLo, fHi := f.TimeRange()
		if fLo == 0 && fHi == 0 && len(f.TimeData()) == 0 {
			continue
		}
		lo = math.Min(lo, fLo)
		hi = math.Max(hi, fHi)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// ChannelsByCategory groups the canonical headers as category → unit →
// channel names, for driving grouped channel pickers.
func (t *Test) ChannelsByCategory() map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, header := range t.CanonicalHeaders {
		category, unit := "Unknown", "No Unit"
		if meta := t.CanonicalMetadata[header]; meta != nil {
			if meta.Category != "" {
				category = meta.Category
			}
			if meta.Unit != "" {
				unit = meta.Unit
			}
		}
		if out[category] == nil {
			out[category] = make(map[string][]string)
		}
		out[category][unit] = append(out[category][unit], header)
	}
	return out
}
