package series

import "math"

// GapThreshold returns the largest tolerable sampling gap for a rolling
// window of the given length: gaps must stay proportionally small relative
// to the window, with an absolute floor so short windows are not sensitive
// to sampling jitter.
func GapThreshold(window, gapFraction, delta float64) float64 {
	return math.Max(gapFraction*window, 1.5*delta)
}

// SplitGaps cuts a resampled table into contiguous segments wherever the
// original (pre-resample) index jumps by more than maxGap. Grid points up to
// a cut stay with the preceding segment; points at or past the first raw
// sample after the gap start a new one. Concatenating the segments in order
// reproduces the input exactly. With no gaps above threshold the input comes
// back as a single segment.
func SplitGaps(uniform *Table, rawIndex []float64, maxGap float64) []*Table {
	var cuts []float64
	for i := 1; i < len(rawIndex); i++ {
		if rawIndex[i]-rawIndex[i-1] > maxGap {
			cuts = append(cuts, rawIndex[i])
		}
	}
	if len(cuts) == 0 || uniform.Len() == 0 {
		return []*Table{uniform}
	}

	var out []*Table
	begin, next := 0, 0
	for i, g := range uniform.Index {
		for next < len(cuts) && g >= cuts[next] {
			if i > begin {
				out = append(out, uniform.slice(begin, i))
			}
			begin = i
			next++
		}
	}
	out = append(out, uniform.slice(begin, uniform.Len()))
	return out
}

// slice returns a view of rows [i, j) sharing the backing arrays.
func (t *Table) slice(i, j int) *Table {
	s := &Table{Index: t.Index[i:j], Columns: make(map[string][]float64, len(t.Columns))}
	if len(t.Timespan) > 0 {
		s.Timespan = t.Timespan[i:j]
	}
	for name, col := range t.Columns {
		s.Columns[name] = col[i:j]
	}
	return s
}
