package series

import (
	"math"
	"testing"
)

func uniformTable(n int, delta float64) *Table {
	idx := make([]float64, n)
	val := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i) * delta
		val[i] = float64(i)
	}
	return tableOf(idx, val, nil)
}

func TestGapThreshold(t *testing.T) {
	tests := []struct {
		window, fraction, delta float64
		want                    float64
	}{
		{300, 0.01, 10, 15},   // floor wins for short windows
		{3600, 0.01, 10, 36},  // fraction wins for long windows
		{60, 0.01, 10, 15},    // 1.5 * delta floor
		{10800, 0.01, 10, 108},
	}
	for _, tt := range tests {
		if got := GapThreshold(tt.window, tt.fraction, tt.delta); got != tt.want {
			t.Errorf("GapThreshold(%v, %v, %v) = %v, want %v",
				tt.window, tt.fraction, tt.delta, got, tt.want)
		}
	}
}

func TestSplitGapsNoGaps(t *testing.T) {
	u := uniformTable(10, 1)
	raw := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	segments := SplitGaps(u, raw, 1.5)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Len() != u.Len() {
		t.Errorf("segment has %d rows, want %d", segments[0].Len(), u.Len())
	}
}

func TestSplitGapsCutsAtRawGap(t *testing.T) {
	// raw samples 0..40 then 100..140, uniform grid every 10
	raw := []float64{0, 10, 20, 30, 40, 100, 110, 120, 130, 140}
	u := uniformTable(15, 10) // grid 0..140
	segments := SplitGaps(u, raw, 15)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	// left segment holds everything before the first raw sample after the gap
	if last := segments[0].Index[segments[0].Len()-1]; last != 90 {
		t.Errorf("left segment ends at %v, want 90", last)
	}
	if first := segments[1].Index[0]; first != 100 {
		t.Errorf("right segment starts at %v, want 100", first)
	}
	// concatenation reproduces the original coverage
	total := 0
	var prev float64 = math.Inf(-1)
	for _, seg := range segments {
		for _, g := range seg.Index {
			if g <= prev {
				t.Fatalf("segment order broken at %v", g)
			}
			prev = g
			total++
		}
	}
	if total != u.Len() {
		t.Errorf("segments cover %d rows, want %d", total, u.Len())
	}
}

func TestSplitGapsMultiple(t *testing.T) {
	raw := []float64{0, 10, 50, 60, 120, 130}
	u := uniformTable(14, 10) // grid 0..130
	segments := SplitGaps(u, raw, 15)
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
}
