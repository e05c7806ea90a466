package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/logmerge/internal/ingest"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// Save writes the layout as indented JSON.
func Save(w io.Writer, l *AppLayout) error {
	wire := appLayoutJSON{
		Version:      Version,
		PlotCount:    clampPlotCount(l.PlotCount),
		PlotSettings: l.PlotSettings,
		CompareMode:  string(l.CompareMode),
		CompareGap:   l.CompareGap,
		WindowWidth:  l.WindowWidth,
		WindowHeight: l.WindowHeight,
	}
	for _, t := range l.Tests {
		wire.Tests = append(wire.Tests, testToWire(t))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	return nil
}

// Load reads a layout from JSON, rejecting unknown schema versions.
// Data files come back configured but unloaded; call Reattach to reload
// their tables.
func Load(r io.Reader) (*AppLayout, error) {
	var wire appLayoutJSON
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if wire.Version != Version {
		return nil, fmt.Errorf("unsupported layout version %q, want %q", wire.Version, Version)
	}

	l := NewAppLayout()
	l.PlotCount = clampPlotCount(wire.PlotCount)
	l.PlotSettings = wire.PlotSettings
	l.CompareGap = wire.CompareGap
	if wire.WindowWidth > 0 {
		l.WindowWidth = wire.WindowWidth
	}
	if wire.WindowHeight > 0 {
		l.WindowHeight = wire.WindowHeight
	}
	if wire.CompareMode != "" {
		mode, err := model.ParseCompareMode(wire.CompareMode)
		if err != nil {
			return nil, err
		}
		l.CompareMode = mode
	}
	for _, tw := range wire.Tests {
		t, err := testFromWire(tw)
		if err != nil {
			return nil, err
		}
		l.Tests = append(l.Tests, t)
	}
	return l, nil
}

// SaveFile writes the layout to a JSON file.
func SaveFile(path string, l *AppLayout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating layout file: %w", err)
	}
	defer f.Close()
	if err := Save(f, l); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads a layout from a JSON file.
func LoadFile(path string) (*AppLayout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Reattach reloads every data file's table from its recorded path.
// Missing or unreadable files are skipped and reported per path; the
// layout stays usable with those files unloaded.
func Reattach(l *AppLayout, reader *ingest.Reader, logger *slog.Logger) map[string]error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	errs := make(map[string]error)
	for _, t := range l.Tests {
		for _, f := range t.DataFiles {
			if err := reader.Reload(f); err != nil {
				logger.Warn("data file not reattached",
					"test", t.Name, "file", f.Filename, "error", err)
				errs[f.Filepath] = err
			}
		}
	}
	return errs
}

// clampPlotCount bounds the panel count to the supported 1 to 3 range.
func clampPlotCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}
