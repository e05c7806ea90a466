package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leapstack-labs/logmerge/internal/ingest"
	"github.com/leapstack-labs/logmerge/internal/model"
)

// sampleLayout builds a layout with one test, one configured data file,
// and a non-default filter state.
func sampleLayout(t *testing.T) *AppLayout {
	t.Helper()

	f := model.NewDataFile()
	f.SetFilepath("/data/run1.csv")
	f.Delimiter = ";"
	f.Encoding = "windows-1252"
	f.Headers = []string{"Time", "Speed"}
	f.TimeMode = model.TimeCustomOffset
	f.TimeOffset = 2.5
	if err := f.SetTimeScale(0.001); err != nil {
		t.Fatal(err)
	}
	if err := f.SetTimeColumn("Time"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetJoin(model.JoinTimeNearest, "", 0.05); err != nil {
		t.Fatal(err)
	}

	tst := model.NewTest("baseline")
	tst.Description = "first commissioning run"
	tst.DataFiles = append(tst.DataFiles, f)
	tst.CanonicalHeaders = []string{"Time", "Speed"}

	lo, hi := 1.0, 9.0
	tst.FilterState.TimeMin = &lo
	tst.FilterState.ChannelFilters["Speed"] = model.ChannelFilter{Max: &hi}
	tst.FilterState.TextSearch = "spd"
	tst.FilterState.CategoryFilter = []string{"Speed"}

	l := NewAppLayout()
	l.Tests = []*model.Test{tst}
	l.PlotCount = 2
	l.PlotSettings = []*PlotSettings{NewPlotSettings()}
	l.CompareMode = model.CompareConcatenate
	l.CompareGap = 1.5
	return l
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	orig := sampleLayout(t)

	var buf bytes.Buffer
	if err := Save(&buf, orig); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.PlotCount != 2 || got.CompareMode != model.CompareConcatenate || got.CompareGap != 1.5 {
		t.Errorf("layout settings = %d/%s/%v", got.PlotCount, got.CompareMode, got.CompareGap)
	}
	if got.WindowWidth != 1400 || got.WindowHeight != 900 {
		t.Errorf("window geometry = %dx%d", got.WindowWidth, got.WindowHeight)
	}
	if len(got.Tests) != 1 {
		t.Fatalf("tests = %d, want 1", len(got.Tests))
	}

	origTest, gotTest := orig.Tests[0], got.Tests[0]
	if gotTest.ID != origTest.ID || gotTest.Name != "baseline" {
		t.Errorf("test identity lost: %q %q", gotTest.ID, gotTest.Name)
	}
	if gotTest.Description != origTest.Description {
		t.Errorf("description = %q", gotTest.Description)
	}
	if !cmp.Equal(gotTest.CanonicalHeaders, []string{"Time", "Speed"}) {
		t.Errorf("canonical headers = %v", gotTest.CanonicalHeaders)
	}

	origFile, gotFile := origTest.DataFiles[0], gotTest.DataFiles[0]
	if gotFile.ID != origFile.ID {
		t.Errorf("file id changed: %q", gotFile.ID)
	}
	if gotFile.Delimiter != ";" || gotFile.Encoding != "windows-1252" {
		t.Errorf("format sniff lost: %q %q", gotFile.Delimiter, gotFile.Encoding)
	}
	if gotFile.TimeMode != model.TimeCustomOffset || gotFile.TimeOffset != 2.5 || gotFile.TimeScale != 0.001 {
		t.Errorf("time config = %s/%v/%v", gotFile.TimeMode, gotFile.TimeOffset, gotFile.TimeScale)
	}
	if gotFile.JoinStrategy != model.JoinTimeNearest || gotFile.JoinTolerance != 0.05 {
		t.Errorf("join config = %s/%v", gotFile.JoinStrategy, gotFile.JoinTolerance)
	}
	if gotFile.Frame != nil {
		t.Error("loaded layout must not carry table data")
	}

	fs := gotTest.FilterState
	if fs == nil || fs.TimeMin == nil || *fs.TimeMin != 1 {
		t.Fatalf("filter state time min lost: %+v", fs)
	}
	cf, ok := fs.ChannelFilters["Speed"]
	if !ok || cf.Min != nil || cf.Max == nil || *cf.Max != 9 {
		t.Errorf("channel filter = %+v", cf)
	}
	if fs.TextSearch != "spd" || !cmp.Equal(fs.CategoryFilter, []string{"Speed"}) {
		t.Errorf("search filters = %q %v", fs.TextSearch, fs.CategoryFilter)
	}
}

func TestSave_UnsetJoinIsNull(t *testing.T) {
	f := model.NewDataFile()
	f.Headers = []string{"Time"}
	if err := f.SetTimeColumn("Time"); err != nil {
		t.Fatal(err)
	}
	tst := model.NewTest("solo")
	tst.DataFiles = append(tst.DataFiles, f)

	l := NewAppLayout()
	l.Tests = []*model.Test{tst}

	var buf bytes.Buffer
	if err := Save(&buf, l); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"join_strategy": null`) {
		t.Error("unset join strategy should serialize as null")
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Tests[0].DataFiles[0].JoinStrategy != model.JoinUnset {
		t.Errorf("join strategy = %q, want unset", got.Tests[0].DataFiles[0].JoinStrategy)
	}
}

func TestLoad_RejectsUnknownVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version": "0.9", "tests": []}`))
	if err == nil || !strings.Contains(err.Error(), "unsupported layout version") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_RejectsBadEnums(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"version": "1.0", "compare_mode": "SIDEWAYS"}`)); err == nil {
		t.Error("bad compare mode should fail")
	}

	bad := `{"version": "1.0", "tests": [{"name": "t", "data_files": [
		{"filepath": "/x.csv", "headers": ["Time"], "time_column": "Time", "time_mode": "WARP"}
	]}]}`
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Error("bad time mode should fail")
	}
}

func TestSaveLoad_ClampsPlotCount(t *testing.T) {
	l := NewAppLayout()
	l.PlotCount = 7

	var buf bytes.Buffer
	if err := Save(&buf, l); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.PlotCount != 3 {
		t.Errorf("plot count = %d, want clamped to 3", got.PlotCount)
	}
}

func TestLoad_ZeroToleranceGetsDefault(t *testing.T) {
	raw := `{"version": "1.0", "tests": [{"name": "t", "data_files": [
		{"filepath": "/x.csv", "headers": ["Time"], "time_column": "Time",
		 "join_strategy": "TIME_NEAREST", "join_tolerance": 0}
	]}]}`
	got, err := Load(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if tol := got.Tests[0].DataFiles[0].JoinTolerance; tol != 0.001 {
		t.Errorf("tolerance = %v, want default 0.001", tol)
	}
}

func TestSaveFile_Reattach(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "run.csv")
	if err := os.WriteFile(dataPath, []byte("Time,Speed\n0,100\n1,200\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := ingest.NewReader(nil)
	f, err := reader.ReadFile(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	tst := model.NewTest("run")
	tst.AddDataFile(f)

	l := NewAppLayout()
	l.Tests = []*model.Test{tst}

	layoutPath := filepath.Join(dir, "workspace.json")
	if err := SaveFile(layoutPath, l); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if errs := Reattach(got, reader, nil); len(errs) != 0 {
		t.Fatalf("reattach errors: %v", errs)
	}
	fr := got.Tests[0].DataFiles[0].Frame
	if fr == nil || fr.NumRows() != 2 {
		t.Errorf("reattached frame = %v", fr)
	}
}

func TestReattach_ReportsMissingFiles(t *testing.T) {
	f := model.NewDataFile()
	f.SetFilepath(filepath.Join(t.TempDir(), "gone.csv"))
	f.Headers = []string{"Time"}
	if err := f.SetTimeColumn("Time"); err != nil {
		t.Fatal(err)
	}
	tst := model.NewTest("run")
	tst.DataFiles = append(tst.DataFiles, f)

	l := NewAppLayout()
	l.Tests = []*model.Test{tst}

	errs := Reattach(l, ingest.NewReader(nil), nil)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one entry", errs)
	}
	if _, ok := errs[f.Filepath]; !ok {
		t.Errorf("error not keyed by path: %v", errs)
	}
}
