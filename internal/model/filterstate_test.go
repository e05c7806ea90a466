package model

import (
	"math"
	"testing"

	"github.com/leapstack-labs/logmerge/internal/frame"
)

func filterFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns([]string{"t", "Speed", "Temp"}, map[string][]float64{
		"t":     {0, 1, 2, 3, 4},
		"Speed": {10, 20, 30, 40, 50},
		"Temp":  {5, 5, math.NaN(), 5, 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFilterState_Disabled(t *testing.T) {
	fs := NewFilterState()
	fs.Enabled = false
	lo := 1.0
	fs.TimeMin = &lo

	fr := filterFrame(t)
	if got := fs.Apply(fr, "t"); got.NumRows() != 5 {
		t.Errorf("disabled filter narrowed rows: %d", got.NumRows())
	}
}

func TestFilterState_TimeWindow(t *testing.T) {
	fs := NewFilterState()
	lo, hi := 1.0, 3.0
	fs.TimeMin = &lo
	fs.TimeMax = &hi

	got := fs.Apply(filterFrame(t), "t")
	if got.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", got.NumRows())
	}
	times, _ := got.Column("t")
	if times[0] != 1 || times[2] != 3 {
		t.Errorf("times = %v (bounds are inclusive)", times)
	}
}

func TestFilterState_ChannelRangesAnd(t *testing.T) {
	fs := NewFilterState()
	min := 20.0
	fs.ChannelFilters["Speed"] = ChannelFilter{Min: &min}
	hi := 2.0
	fs.TimeMax = &hi

	got := fs.Apply(filterFrame(t), "t")
	// Conditions AND together: t <= 2 and Speed >= 20.
	if got.NumRows() != 2 {
		t.Errorf("rows = %d, want 2", got.NumRows())
	}
}

func TestFilterState_NaNFailsBounds(t *testing.T) {
	fs := NewFilterState()
	min := 0.0
	fs.ChannelFilters["Temp"] = ChannelFilter{Min: &min}

	got := fs.Apply(filterFrame(t), "t")
	if got.NumRows() != 4 {
		t.Errorf("rows = %d, want 4 (NaN row excluded)", got.NumRows())
	}
}

func TestFilterState_AbsentChannelUnconstrained(t *testing.T) {
	fs := NewFilterState()
	min := 0.0
	fs.ChannelFilters["Nope"] = ChannelFilter{Min: &min}

	got := fs.Apply(filterFrame(t), "t")
	if got.NumRows() != 5 {
		t.Errorf("rows = %d, want 5", got.NumRows())
	}
}

func TestFilterState_InputNotMutated(t *testing.T) {
	fs := NewFilterState()
	lo := 3.0
	fs.TimeMin = &lo

	fr := filterFrame(t)
	fs.Apply(fr, "t")
	if fr.NumRows() != 5 {
		t.Error("input frame was narrowed in place")
	}
}
