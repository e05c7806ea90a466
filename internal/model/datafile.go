package model

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/merge"
)

// DataFile is one imported table plus its time-handling configuration and
// the join strategy describing how it merges into its owning test. A data
// file belongs to at most one test at a time.
type DataFile struct {
	ID        string
	Filepath  string
	Filename  string
	Delimiter string
	Encoding  string

	Headers         []string
	ChannelMetadata map[string]*channel.Metadata

	// Frame holds the loaded rows; nil until loaded. Not persisted.
	Frame *frame.Frame

	TimeColumn string
	TimeMode   TimeMode
	TimeOffset float64
	TimeScale  float64

	JoinStrategy  JoinStrategy
	JoinKey       string
	JoinTolerance float64
}

// NewDataFile creates a data file with a fresh id and default settings.
func NewDataFile() *DataFile {
	return &DataFile{
		ID:              uuid.NewString(),
		Delimiter:       ",",
		Encoding:        "utf-8",
		ChannelMetadata: make(map[string]*channel.Metadata),
		TimeMode:        TimeRelative,
		TimeScale:       1.0,
		JoinTolerance:   0.001,
	}
}

// SetFilepath records the backing file path and derives the file name.
func (f *DataFile) SetFilepath(path string) {
	f.Filepath = path
	f.Filename = filepath.Base(path)
}

// SetTimeColumn selects the time column. The column must be one of the
// file's headers; the empty string clears the selection.
func (f *DataFile) SetTimeColumn(name string) error {
	if name != "" && !f.hasHeader(name) {
		return fmt.Errorf("time column %q is not a header of %s", name, f.Filename)
	}
	f.TimeColumn = name
	return nil
}

// SetTimeScale sets the time scale factor. Zero is rejected: it would
// collapse the series onto a single instant.
func (f *DataFile) SetTimeScale(scale float64) error {
	if scale == 0 || math.IsNaN(scale) {
		return fmt.Errorf("time scale must be non-zero, got %v", scale)
	}
	f.TimeScale = scale
	return nil
}

// SetJoin records how this file merges into its test. TIME_NEAREST
// requires a positive tolerance; ALTERNATIVE_KEY requires a key column.
func (f *DataFile) SetJoin(strategy JoinStrategy, key string, tolerance float64) error {
	switch strategy {
	case JoinTimeNearest:
		if tolerance <= 0 || math.IsNaN(tolerance) {
			return fmt.Errorf("join tolerance must be positive, got %v", tolerance)
		}
	case JoinAlternativeKey:
		if key == "" {
			return fmt.Errorf("alternative-key join requires a key column")
		}
	case JoinUnset, JoinTimeExact, JoinAppendSegment:
	default:
		return fmt.Errorf("unknown join strategy %q", strategy)
	}
	f.JoinStrategy = strategy
	f.JoinKey = key
	if tolerance > 0 {
		f.JoinTolerance = tolerance
	}
	return nil
}

func (f *DataFile) hasHeader(name string) bool {
	for _, h := range f.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// TimeData returns the fully transformed time series: the mode transform,
// then the offset, then the scale, in that order. Returns nil when no data
// is loaded or the time column is absent.
func (f *DataFile) TimeData() []float64 {
	if f.Frame == nil {
		return nil
	}
	raw, ok := f.Frame.Column(f.TimeColumn)
	if !ok {
		return nil
	}
	times := raw
	if f.TimeMode == TimeRelative {
		times = merge.RelativeTime(times, 0)
	}
	return merge.ApplyScale(merge.ApplyOffset(times, f.TimeOffset), f.TimeScale)
}

// TimeRange returns (min, max) of the transformed time series, or (0, 0)
// when there is none.
func (f *DataFile) TimeRange() (float64, float64) {
	times := f.TimeData()
	if len(times) == 0 {
		return 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range times {
		if math.IsNaN(t) {
			continue
		}
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// ChannelData returns the loaded values for a channel, or nil if absent.
func (f *DataFile) ChannelData(name string) []float64 {
	if f.Frame == nil {
		return nil
	}
	values, ok := f.Frame.Column(name)
	if !ok {
		return nil
	}
	return values
}
