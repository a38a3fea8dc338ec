// Package elevation smooths raw elevation along the route and derives
// percent grade. Smoothing follows the route rather than the terrain: routes
// are smoother than terrain, and route-wise filtering handles position error
// (hairpins up a mountainside) far better.
package elevation

import (
	"math"
	"sort"
)

const (
	// smoothWindow is the median-filter width, in samples.
	smoothWindow = 7
	// gradeWindow is the centred rolling-median width applied to grade.
	gradeWindow = 5
)

// Smooth returns the smoothed elevation and percent grade for a profile of
// raw elevation (m) indexed by distance (km). Samples with NaN raw elevation
// stay NaN: smoothing never extrapolates.
func Smooth(distanceKM, raw []float64) (elev, grade []float64) {
	n := min(len(distanceKM), len(raw))
	elev = medianFilter(raw[:n], smoothWindow)
	for i := range elev {
		if math.IsNaN(raw[i]) {
			elev[i] = math.NaN()
		}
	}
	grade = gradePercent(distanceKM[:n], elev)
	grade = medianFilter(grade, gradeWindow)
	fill(grade)
	return elev, grade
}

// medianFilter applies a centred median over an odd window, shrinking at the
// edges. NaN values are ignored inside each window.
func medianFilter(values []float64, window int) []float64 {
	if window%2 == 0 {
		window++
	}
	half := window / 2
	out := make([]float64, len(values))
	buf := make([]float64, 0, window)
	for i := range values {
		buf = buf[:0]
		for j := max(0, i-half); j < min(len(values), i+half+1); j++ {
			if !math.IsNaN(values[j]) {
				buf = append(buf, values[j])
			}
		}
		if len(buf) == 0 {
			out[i] = math.NaN()
			continue
		}
		sort.Float64s(buf)
		m := len(buf) / 2
		if len(buf)%2 == 1 {
			out[i] = buf[m]
		} else {
			out[i] = (buf[m-1] + buf[m]) / 2
		}
	}
	return out
}

// gradePercent is the slope of elevation against distance, by central
// difference where both neighbours exist.
func gradePercent(distanceKM, elev []float64) []float64 {
	out := make([]float64, len(elev))
	for i := range out {
		lo, hi := max(0, i-1), min(len(elev)-1, i+1)
		dx := (distanceKM[hi] - distanceKM[lo]) * 1000
		if dx == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = 100 * (elev[hi] - elev[lo]) / dx
	}
	return out
}

// fill replaces NaN runs with the nearest preceding value, then the nearest
// following value for a leading run.
func fill(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
		} else {
			last = v
		}
	}
	last = math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = last
		} else {
			last = values[i]
		}
	}
}
