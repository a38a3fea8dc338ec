package series

import (
	"math"
	"sort"
)

// MaxWindowMean returns the largest mean over any n consecutive samples,
// computed from the prefix cumulative sum: best = max(cum[i] - cum[i-n]) / n.
// Windows containing NaN are skipped. It reports false when no valid window
// exists (len(values) <= n, or every window touches a NaN).
func MaxWindowMean(values []float64, n int) (float64, bool) {
	if n < 1 || len(values) <= n {
		return 0, false
	}
	cum := make([]float64, len(values))
	bad := make([]int, len(values)) // prefix count of NaN samples
	var sum float64
	nans := 0
	for i, v := range values {
		if math.IsNaN(v) {
			nans++
		} else {
			sum += v
		}
		cum[i] = sum
		bad[i] = nans
	}
	best, ok := math.Inf(-1), false
	for i := n; i < len(cum); i++ {
		if bad[i]-bad[i-n] > 0 {
			continue
		}
		if d := cum[i] - cum[i-n]; d > best {
			best, ok = d, true
		}
	}
	return best / float64(n), ok
}

// RollingMedian computes the median over each window of n consecutive
// samples. The result has one entry per window; a window containing NaN
// yields NaN so gap sentinels are never bridged. Returns nil when no full
// window fits.
func RollingMedian(values []float64, n int) []float64 {
	if n < 1 || len(values) < n {
		return nil
	}
	out := make([]float64, 0, len(values)-n+1)
	window := make([]float64, 0, n)
	bad := 0 // NaN count in the current window
	for i, v := range values {
		if math.IsNaN(v) {
			bad++
		} else {
			window = insertSorted(window, v)
		}
		if i >= n {
			old := values[i-n]
			if math.IsNaN(old) {
				bad--
			} else {
				window = removeSorted(window, old)
			}
		}
		if i >= n-1 {
			if bad > 0 {
				out = append(out, math.NaN())
			} else {
				out = append(out, medianSorted(window))
			}
		}
	}
	return out
}

func insertSorted(w []float64, v float64) []float64 {
	i := sort.SearchFloat64s(w, v)
	w = append(w, 0)
	copy(w[i+1:], w[i:])
	w[i] = v
	return w
}

func removeSorted(w []float64, v float64) []float64 {
	i := sort.SearchFloat64s(w, v)
	copy(w[i:], w[i+1:])
	return w[:len(w)-1]
}

func medianSorted(w []float64) float64 {
	m := len(w) / 2
	if len(w)%2 == 1 {
		return w[m]
	}
	return (w[m-1] + w[m]) / 2
}

// Median returns the median of values, ignoring NaN. NaN when empty.
func Median(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	return medianSorted(clean)
}

// MedianDT returns the median spacing between consecutive index values.
func MedianDT(index []float64) float64 {
	if len(index) < 2 {
		return math.NaN()
	}
	diffs := make([]float64, 0, len(index)-1)
	for i := 1; i < len(index); i++ {
		diffs = append(diffs, index[i]-index[i-1])
	}
	return Median(diffs)
}

// Max returns the largest non-NaN value, reporting false when none exists.
func Max(values []float64) (float64, bool) {
	best, ok := math.Inf(-1), false
	for _, v := range values {
		if !math.IsNaN(v) && v > best {
			best, ok = v, true
		}
	}
	return best, ok
}
