// Package layout persists workspace state as versioned JSON: tests with
// their data file configurations, comparison settings, and plot panel
// settings. Loaded tables are never persisted; Reattach re-reads them
// from their recorded paths.
package layout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// Version is the layout schema version this package reads and writes.
const Version = "1.0"

// PlotSettings configures one plot panel.
type PlotSettings struct {
	ID string `json:"id"`

	SelectedTests []string `json:"selected_tests"`

	// ChannelAxisMap assigns channels to Y axes (1 to 3) on the primary
	// panel; secondary panels use the flat SelectedChannels list.
	ChannelAxisMap   map[string]int `json:"channel_axis_map"`
	SelectedChannels []string       `json:"selected_channels"`

	XLabel     string   `json:"x_label"`
	XUnit      string   `json:"x_unit"`
	XMin       *float64 `json:"x_min"`
	XMax       *float64 `json:"x_max"`
	XAutoscale bool     `json:"x_autoscale"`

	YLabels     []string   `json:"y_labels"`
	YUnits      []string   `json:"y_units"`
	YMins       []*float64 `json:"y_mins"`
	YMaxs       []*float64 `json:"y_maxs"`
	YAutoscales []bool     `json:"y_autoscales"`
}

// NewPlotSettings creates plot settings with defaults for a three-axis
// panel.
func NewPlotSettings() *PlotSettings {
	return &PlotSettings{
		ID:             uuid.NewString(),
		ChannelAxisMap: make(map[string]int),
		XLabel:         "Time",
		XUnit:          "s",
		XAutoscale:     true,
		YLabels:        []string{"Y1", "Y2", "Y3"},
		YUnits:         []string{"", "", ""},
		YMins:          []*float64{nil, nil, nil},
		YMaxs:          []*float64{nil, nil, nil},
		YAutoscales:    []bool{true, true, true},
	}
}

// AppLayout is the full persisted workspace.
type AppLayout struct {
	Tests        []*model.Test
	PlotCount    int
	PlotSettings []*PlotSettings
	CompareMode  model.CompareMode
	CompareGap   float64
	WindowWidth  int
	WindowHeight int
}

// NewAppLayout creates an empty layout with default window geometry.
func NewAppLayout() *AppLayout {
	return &AppLayout{
		PlotCount:    1,
		CompareMode:  model.CompareOverlay,
		WindowWidth:  1400,
		WindowHeight: 900,
	}
}

// Wire types. Nullable scalars are pointers so JSON null round-trips.

type metadataJSON struct {
	OriginalName string `json:"original_name"`
	DisplayName  string `json:"display_name"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	Description  string `json:"description"`
}

type filterStateJSON struct {
	TimeMin        *float64               `json:"time_min"`
	TimeMax        *float64               `json:"time_max"`
	ChannelFilters map[string][2]*float64 `json:"channel_filters"`
	TextSearch     string                 `json:"text_search"`
	CategoryFilter []string               `json:"category_filter"`
	UnitFilter     []string               `json:"unit_filter"`
	Enabled        bool                   `json:"enabled"`
}

type dataFileJSON struct {
	ID              string                  `json:"id"`
	Filepath        string                  `json:"filepath"`
	Filename        string                  `json:"filename"`
	Delimiter       string                  `json:"delimiter"`
	Encoding        string                  `json:"encoding"`
	Headers         []string                `json:"headers"`
	ChannelMetadata map[string]metadataJSON `json:"channel_metadata"`
	TimeColumn      string                  `json:"time_column"`
	TimeMode        string                  `json:"time_mode"`
	TimeOffset      float64                 `json:"time_offset"`
	TimeScale       float64                 `json:"time_scale"`
	JoinStrategy    *string                 `json:"join_strategy"`
	JoinKey         *string                 `json:"join_key"`
	JoinTolerance   float64                 `json:"join_tolerance"`
}

type testJSON struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	DataFiles         []dataFileJSON          `json:"data_files"`
	CanonicalHeaders  []string                `json:"canonical_headers"`
	CanonicalMetadata map[string]metadataJSON `json:"canonical_metadata"`
	PrimaryTimeColumn string                  `json:"primary_time_column"`
	FilterState       *filterStateJSON        `json:"filter_state"`
	CompareTimeOffset float64                 `json:"compare_time_offset"`
	Color             string                  `json:"color"`
}

type appLayoutJSON struct {
	Version      string          `json:"version"`
	Tests        []testJSON      `json:"tests"`
	PlotCount    int             `json:"plot_count"`
	PlotSettings []*PlotSettings `json:"plot_settings"`
	CompareMode  string          `json:"compare_mode"`
	CompareGap   float64         `json:"compare_gap"`
	WindowWidth  int             `json:"window_width"`
	WindowHeight int             `json:"window_height"`
}

func metadataToWire(m *channel.Metadata) metadataJSON {
	return metadataJSON{
		OriginalName: m.OriginalName,
		DisplayName:  m.DisplayName,
		Unit:         m.Unit,
		Category:     m.Category,
		Description:  m.Description,
	}
}

func metadataFromWire(w metadataJSON) *channel.Metadata {
	category := w.Category
	if category == "" {
		category = "Unknown"
	}
	return &channel.Metadata{
		OriginalName: w.OriginalName,
		DisplayName:  w.DisplayName,
		Unit:         w.Unit,
		Category:     category,
		Description:  w.Description,
	}
}

func metadataMapToWire(m map[string]*channel.Metadata) map[string]metadataJSON {
	out := make(map[string]metadataJSON, len(m))
	for k, v := range m {
		out[k] = metadataToWire(v)
	}
	return out
}

func metadataMapFromWire(w map[string]metadataJSON) map[string]*channel.Metadata {
	out := make(map[string]*channel.Metadata, len(w))
	for k, v := range w {
		out[k] = metadataFromWire(v)
	}
	return out
}

func filterStateToWire(fs *model.FilterState) *filterStateJSON {
	w := &filterStateJSON{
		TimeMin:        fs.TimeMin,
		TimeMax:        fs.TimeMax,
		ChannelFilters: make(map[string][2]*float64, len(fs.ChannelFilters)),
		TextSearch:     fs.TextSearch,
		CategoryFilter: fs.CategoryFilter,
		UnitFilter:     fs.UnitFilter,
		Enabled:        fs.Enabled,
	}
	for name, cf := range fs.ChannelFilters {
		w.ChannelFilters[name] = [2]*float64{cf.Min, cf.Max}
	}
	return w
}

func filterStateFromWire(w *filterStateJSON) *model.FilterState {
	fs := model.NewFilterState()
	if w == nil {
		return fs
	}
	fs.TimeMin = w.TimeMin
	fs.TimeMax = w.TimeMax
	fs.TextSearch = w.TextSearch
	fs.CategoryFilter = w.CategoryFilter
	fs.UnitFilter = w.UnitFilter
	fs.Enabled = w.Enabled
	for name, bounds := range w.ChannelFilters {
		fs.ChannelFilters[name] = model.ChannelFilter{Min: bounds[0], Max: bounds[1]}
	}
	return fs
}

func dataFileToWire(f *model.DataFile) dataFileJSON {
	w := dataFileJSON{
		ID:              f.ID,
		Filepath:        f.Filepath,
		Filename:        f.Filename,
		Delimiter:       f.Delimiter,
		Encoding:        f.Encoding,
		Headers:         f.Headers,
		ChannelMetadata: metadataMapToWire(f.ChannelMetadata),
		TimeColumn:      f.TimeColumn,
		TimeMode:        string(f.TimeMode),
		TimeOffset:      f.TimeOffset,
		TimeScale:       f.TimeScale,
		JoinTolerance:   f.JoinTolerance,
	}
	if f.JoinStrategy != model.JoinUnset {
		s := string(f.JoinStrategy)
		w.JoinStrategy = &s
	}
	if f.JoinKey != "" {
		k := f.JoinKey
		w.JoinKey = &k
	}
	return w
}

func dataFileFromWire(w dataFileJSON) (*model.DataFile, error) {
	f := model.NewDataFile()
	if w.ID != "" {
		f.ID = w.ID
	}
	f.SetFilepath(w.Filepath)
	if w.Filename != "" {
		f.Filename = w.Filename
	}
	if w.Delimiter != "" {
		f.Delimiter = w.Delimiter
	}
	if w.Encoding != "" {
		f.Encoding = w.Encoding
	}
	f.Headers = w.Headers
	f.ChannelMetadata = metadataMapFromWire(w.ChannelMetadata)

	if w.TimeMode != "" {
		mode, err := model.ParseTimeMode(w.TimeMode)
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", w.Filename, err)
		}
		f.TimeMode = mode
	}
	f.TimeOffset = w.TimeOffset
	if w.TimeScale != 0 {
		f.TimeScale = w.TimeScale
	}
	// Headers are restored above, so the column check holds.
	if err := f.SetTimeColumn(w.TimeColumn); err != nil {
		return nil, err
	}

	strategy := model.JoinUnset
	if w.JoinStrategy != nil {
		s, err := model.ParseJoinStrategy(*w.JoinStrategy)
		if err != nil {
			return nil, fmt.Errorf("data file %s: %w", w.Filename, err)
		}
		strategy = s
	}
	key := ""
	if w.JoinKey != nil {
		key = *w.JoinKey
	}
	tolerance := w.JoinTolerance
	if tolerance == 0 {
		tolerance = 0.001
	}
	if err := f.SetJoin(strategy, key, tolerance); err != nil {
		return nil, fmt.Errorf("data file %s: %w", w.Filename, err)
	}
	return f, nil
}

func testToWire(t *model.Test) testJSON {
	w := testJSON{
		ID:                t.ID,
		Name:              t.Name,
		Description:       t.Description,
		CanonicalHeaders:  t.CanonicalHeaders,
		CanonicalMetadata: metadataMapToWire(t.CanonicalMetadata),
		PrimaryTimeColumn: t.PrimaryTimeColumn,
		FilterState:       filterStateToWire(t.FilterState),
		CompareTimeOffset: t.CompareTimeOffset,
		Color:             t.Color,
	}
	for _, f := range t.DataFiles {
		w.DataFiles = append(w.DataFiles, dataFileToWire(f))
	}
	return w
}

func testFromWire(w testJSON) (*model.Test, error) {
	t := model.NewTest(w.Name)
	if w.ID != "" {
		t.ID = w.ID
	}
	t.Description = w.Description
	t.PrimaryTimeColumn = w.PrimaryTimeColumn
	t.CompareTimeOffset = w.CompareTimeOffset
	if w.Color != "" {
		t.Color = w.Color
	}
	t.FilterState = filterStateFromWire(w.FilterState)

	for _, fw := range w.DataFiles {
		f, err := dataFileFromWire(fw)
		if err != nil {
			return nil, fmt.Errorf("test %q: %w", w.Name, err)
		}
		t.DataFiles = append(t.DataFiles, f)
	}

	// Restore the canonical schema as saved, then let membership fill
	// any gaps from files added since.
	t.CanonicalHeaders = w.CanonicalHeaders
	t.CanonicalMetadata = metadataMapFromWire(w.CanonicalMetadata)
	if t.CanonicalMetadata == nil {
		t.CanonicalMetadata = make(map[string]*channel.Metadata)
	}
	return t, nil
}
