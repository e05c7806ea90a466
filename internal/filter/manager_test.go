package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leapstack-labs/logmerge/internal/channel"
	"github.com/leapstack-labs/logmerge/internal/frame"
	"github.com/leapstack-labs/logmerge/internal/model"
	"github.com/leapstack-labs/logmerge/internal/testutil"
)

func newManagedTest(t *testing.T) (*Manager, *model.Test) {
	t.Helper()
	m := NewManager(testutil.NewTestLogger(t))
	tst := model.NewTest("run")

	f := model.NewDataFile()
	f.Headers = []string{"Time", "TEMP_C", "Speed [rpm]"}
	fr, err := frame.FromColumns(f.Headers, map[string][]float64{
		"Time": {0, 1, 2}, "TEMP_C": {20, 21, 22}, "Speed [rpm]": {100, 200, 300},
	})
	if err != nil {
		t.Fatal(err)
	}
	f.Frame = fr
	f.ChannelMetadata["Time"] = &channel.Metadata{
		OriginalName: "Time", DisplayName: "Time", Unit: "s", Category: "Time",
	}
	f.ChannelMetadata["TEMP_C"] = &channel.Metadata{
		OriginalName: "TEMP_C", DisplayName: "TEMP", Unit: "°C", Category: "Temperature",
	}
	f.ChannelMetadata["Speed [rpm]"] = &channel.Metadata{
		OriginalName: "Speed [rpm]", DisplayName: "Speed", Unit: "rpm", Category: "Speed",
	}
	tst.AddDataFile(f)

	m.Register(tst)
	return m, tst
}

func TestManager_RegisterAssignsFilterState(t *testing.T) {
	m := NewManager(nil)
	tst := model.NewTest("run")
	tst.FilterState = nil

	m.Register(tst)
	if tst.FilterState == nil {
		t.Fatal("register should create missing filter state")
	}
	if m.Test(tst.ID) != tst {
		t.Error("test not retrievable after register")
	}

	m.Unregister(tst.ID)
	if m.Test(tst.ID) != nil {
		t.Error("test still retrievable after unregister")
	}
}

func TestManager_MutationsNotifyListeners(t *testing.T) {
	m, tst := newManagedTest(t)

	var notified []string
	id := m.AddListener(func(testID string) {
		notified = append(notified, testID)
	})

	lo := 1.0
	if !m.SetTimeRange(tst.ID, &lo, nil) {
		t.Fatal("SetTimeRange failed")
	}
	m.SetTextSearch(tst.ID, "temp")
	m.SetEnabled(tst.ID, false)

	if len(notified) != 3 {
		t.Errorf("listener fired %d times, want 3", len(notified))
	}
	for _, got := range notified {
		if got != tst.ID {
			t.Errorf("notified with %q, want %q", got, tst.ID)
		}
	}

	m.RemoveListener(id)
	m.SetTextSearch(tst.ID, "")
	if len(notified) != 3 {
		t.Error("removed listener still fired")
	}
}

func TestManager_MutateUnknownTest(t *testing.T) {
	m := NewManager(nil)
	if m.SetTextSearch("nope", "x") {
		t.Error("mutation on unknown test should report false")
	}
}

func TestManager_SetChannelFilter_NilBoundsRemove(t *testing.T) {
	m, tst := newManagedTest(t)

	min := 10.0
	m.SetChannelFilter(tst.ID, "TEMP_C", &min, nil)
	if _, ok := tst.FilterState.ChannelFilters["TEMP_C"]; !ok {
		t.Fatal("channel filter not set")
	}

	m.SetChannelFilter(tst.ID, "TEMP_C", nil, nil)
	if _, ok := tst.FilterState.ChannelFilters["TEMP_C"]; ok {
		t.Error("nil bounds should remove the channel filter")
	}
}

func TestManager_ClearFilters(t *testing.T) {
	m, tst := newManagedTest(t)

	lo := 1.0
	m.SetTimeRange(tst.ID, &lo, nil)
	m.SetTextSearch(tst.ID, "temp")
	m.SetEnabled(tst.ID, false)

	if !m.ClearFilters(tst.ID) {
		t.Fatal("ClearFilters failed")
	}
	fs := m.FilterState(tst.ID)
	if fs.TimeMin != nil || fs.TextSearch != "" || !fs.Enabled {
		t.Errorf("filter state not reset: %+v", fs)
	}
}

func TestManager_FilteredChannels_TextSearch(t *testing.T) {
	m, tst := newManagedTest(t)

	// Matches the display name, not just the raw header.
	m.SetTextSearch(tst.ID, "speed")
	got := m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"Speed [rpm]"}) {
		t.Errorf("FilteredChannels = %v", got)
	}
}

func TestManager_FilteredChannels_CategoryAndUnit(t *testing.T) {
	m, tst := newManagedTest(t)

	m.SetCategoryFilter(tst.ID, []string{"Temperature"})
	got := m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"TEMP_C"}) {
		t.Errorf("category filter = %v", got)
	}

	m.SetCategoryFilter(tst.ID, nil)
	m.SetUnitFilter(tst.ID, []string{"rpm"})
	got = m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"Speed [rpm]"}) {
		t.Errorf("unit filter = %v", got)
	}
}

func TestManager_FilteredChannels_CanonicalOrderAndMissingMetadata(t *testing.T) {
	m := NewManager(nil)
	tst := model.NewTest("run")

	f := model.NewDataFile()
	f.Headers = []string{"Time", "Zeta", "Alpha"}
	f.ChannelMetadata["Time"] = &channel.Metadata{
		OriginalName: "Time", DisplayName: "Time", Unit: "s", Category: "Time",
	}
	tst.AddDataFile(f)
	m.Register(tst)

	// Canonical order is preserved, never sorted.
	got := m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"Time", "Zeta", "Alpha"}) {
		t.Errorf("FilteredChannels = %v, want canonical order", got)
	}

	// Channels without metadata pass category and unit allow-lists.
	m.SetCategoryFilter(tst.ID, []string{"Temperature"})
	got = m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"Zeta", "Alpha"}) {
		t.Errorf("category filter = %v, want metadata-less channels kept", got)
	}

	m.SetCategoryFilter(tst.ID, nil)
	m.SetUnitFilter(tst.ID, []string{"rpm"})
	got = m.FilteredChannels(tst.ID)
	if !cmp.Equal(got, []string{"Zeta", "Alpha"}) {
		t.Errorf("unit filter = %v, want metadata-less channels kept", got)
	}
}

func TestManager_ApplyFilter_UnknownTestPassesThrough(t *testing.T) {
	m := NewManager(nil)
	fr, err := frame.FromColumns([]string{"t"}, map[string][]float64{"t": {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.ApplyFilter("nope", fr, "t"); got.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", got.NumRows())
	}
}
