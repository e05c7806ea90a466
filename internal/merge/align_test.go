package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRelativeTime(t *testing.T) {
	got := RelativeTime([]float64{100, 101.5, 104}, 0)
	want := []float64{0, 1.5, 4}
	if !cmp.Equal(got, want) {
		t.Errorf("RelativeTime = %v, want %v", got, want)
	}
}

func TestRelativeTime_ExplicitReference(t *testing.T) {
	got := RelativeTime([]float64{100, 102}, 90)
	want := []float64{10, 12}
	if !cmp.Equal(got, want) {
		t.Errorf("RelativeTime = %v, want %v", got, want)
	}
}

func TestRelativeTime_Empty(t *testing.T) {
	if got := RelativeTime(nil, 0); len(got) != 0 {
		t.Errorf("empty input should pass through, got %v", got)
	}
}

func TestRelativeTime_DoesNotMutate(t *testing.T) {
	in := []float64{5, 6}
	RelativeTime(in, 0)
	if in[0] != 5 {
		t.Error("input was mutated")
	}
}

func TestApplyOffsetAndScale(t *testing.T) {
	times := []float64{0, 1, 2}

	shifted := ApplyOffset(times, 10)
	if !cmp.Equal(shifted, []float64{10, 11, 12}) {
		t.Errorf("ApplyOffset = %v", shifted)
	}

	scaled := ApplyScale(times, 0.001)
	if !cmp.Equal(scaled, []float64{0, 0.001, 0.002}) {
		t.Errorf("ApplyScale = %v", scaled)
	}

	if times[1] != 1 {
		t.Error("input was mutated")
	}
}

func TestConcatenateOffset(t *testing.T) {
	tests := []struct {
		name                  string
		end, start, gap, want float64
	}{
		{"basic", 10, 0, 1, 11},
		{"nonzero start", 10, 5, 1, 6},
		{"negative gap overlaps", 10, 0, -2, 8},
		{"zero gap abuts", 10, 0, 0, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConcatenateOffset(tc.end, tc.start, tc.gap); got != tc.want {
				t.Errorf("ConcatenateOffset(%v, %v, %v) = %v, want %v",
					tc.end, tc.start, tc.gap, got, tc.want)
			}
		})
	}
}
