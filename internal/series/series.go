// Package series provides the time- and distance-indexed sample tables that
// activity statistics are computed from, plus the resampling and windowing
// kernels that operate on them.
package series

import (
	"errors"
	"fmt"
	"math"
)

// ErrContract marks caller bugs (bad delta, non-monotonic index) as opposed
// to sparse or missing data, which is never an error.
var ErrContract = errors.New("series contract violation")

// NoTimespan marks a sample or grid point that lies outside every active span.
const NoTimespan int64 = -1

// Table is an ordered set of samples sharing one monotonic index (seconds
// since activity start, or km along the route). Columns hold one value per
// index entry, NaN where the recording has no reading. Timespan, when
// present, identifies the contiguous active span each sample belongs to and
// is treated as opaque grouping data.
type Table struct {
	Index    []float64
	Timespan []int64
	Columns  map[string][]float64
}

// NewTable creates an empty table over the given index.
func NewTable(index []float64) *Table {
	return &Table{Index: index, Columns: make(map[string][]float64)}
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.Index) }

// Column returns the named column, or nil if the table does not carry it.
func (t *Table) Column(name string) []float64 {
	if t == nil {
		return nil
	}
	return t.Columns[name]
}

// HasColumn reports whether the named column is present and non-empty.
func (t *Table) HasColumn(name string) bool { return len(t.Column(name)) > 0 }

// Timespans returns the distinct timespan ids in order of first appearance,
// skipping NoTimespan.
func (t *Table) Timespans() []int64 {
	var out []int64
	seen := make(map[int64]bool)
	for _, id := range t.Timespan {
		if id == NoTimespan || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ResampleOptions controls how Resample treats spans and gaps.
type ResampleOptions struct {
	// KeepTimespan propagates span ids onto the grid. A grid point keeps the
	// preceding sample's id only while the following sample agrees, so span
	// boundaries survive resampling; everything else is NoTimespan.
	KeepTimespan bool
	// KeepGaps leaves grid points between samples of different spans
	// unresolved (NaN) instead of interpolating across the pause.
	KeepGaps bool
}

// Resample interpolates every column onto a uniform grid spaced delta apart,
// starting at the table's minimum index. Duplicate index values keep the
// last sample. Fewer than two distinct index values yield an empty table.
// A non-increasing index or non-positive delta is a contract violation.
func (t *Table) Resample(delta float64, opt ResampleOptions) (*Table, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: delta %v must be > 0", ErrContract, delta)
	}
	idx, pick, err := dedupe(t.Index)
	if err != nil {
		return nil, err
	}
	out := NewTable(nil)
	if len(idx) < 2 {
		return out, nil
	}

	start, end := idx[0], idx[len(idx)-1]
	n := int(math.Floor((end-start)/delta + 1e-9))
	out.Index = make([]float64, 0, n+1)
	if opt.KeepTimespan && len(t.Timespan) > 0 {
		out.Timespan = make([]int64, 0, n+1)
	}
	for name := range t.Columns {
		out.Columns[name] = make([]float64, 0, n+1)
	}

	ts := func(i int) int64 {
		if len(t.Timespan) == 0 {
			return NoTimespan
		}
		return t.Timespan[pick[i]]
	}

	left := 0
	for i := 0; i <= n; i++ {
		g := start + float64(i)*delta
		if g > end {
			g = end
		}
		for left+1 < len(idx) && idx[left+1] <= g {
			left++
		}
		right := left
		if idx[left] < g {
			right = left + 1
		}
		exact := right == left

		span := NoTimespan
		if exact {
			span = ts(left)
		} else if ts(left) == ts(right) {
			span = ts(left)
		}
		inGap := !exact && ts(left) != ts(right)

		out.Index = append(out.Index, g)
		if out.Timespan != nil {
			out.Timespan = append(out.Timespan, span)
		}
		for name, col := range t.Columns {
			var v float64
			switch {
			case opt.KeepGaps && inGap:
				v = math.NaN()
			case exact:
				v = col[pick[left]]
			default:
				lo, hi := col[pick[left]], col[pick[right]]
				frac := (g - idx[left]) / (idx[right] - idx[left])
				v = lo + (hi-lo)*frac
			}
			out.Columns[name] = append(out.Columns[name], v)
		}
	}
	return out, nil
}

// dedupe collapses duplicate index values keeping the last sample, and
// rejects a decreasing index. pick maps deduped positions back to source
// rows.
func dedupe(index []float64) (idx []float64, pick []int, err error) {
	for i, v := range index {
		if math.IsNaN(v) {
			continue
		}
		if len(idx) > 0 {
			last := idx[len(idx)-1]
			if v < last {
				return nil, nil, fmt.Errorf("%w: index decreases at position %d (%v < %v)",
					ErrContract, i, v, last)
			}
			if v == last {
				pick[len(pick)-1] = i
				continue
			}
		}
		idx = append(idx, v)
		pick = append(pick, i)
	}
	return idx, pick, nil
}

// ResamplePairs interpolates a single (index, value) sequence onto a uniform
// grid. Convenience wrapper used where no full table is needed.
func ResamplePairs(index, value []float64, delta float64) ([]float64, []float64, error) {
	t := NewTable(index)
	t.Columns["value"] = value
	r, err := t.Resample(delta, ResampleOptions{})
	if err != nil {
		return nil, nil, err
	}
	return r.Index, r.Columns["value"], nil
}
