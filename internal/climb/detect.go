package climb

import (
	"math"
	"sort"
)

// Params tunes climb detection.
type Params struct {
	// Phi weights gain against distance when scoring candidates
	// (score = gain / distance^phi).
	Phi float64
	// MinGradient is the minimum average gradient, percent.
	MinGradient float64
	// MinElevation is the minimum gain, metres.
	MinElevation float64
	// MaxReversal bounds the largest descent inside a climb, as a fraction
	// of its gain.
	MaxReversal float64
}

// DefaultParams returns the detection thresholds used for real routes.
func DefaultParams() Params {
	return Params{Phi: 0.7, MinGradient: 3, MinElevation: 80, MaxReversal: 0.1}
}

// Find detects climbs in an elevation profile indexed by distance (both in
// metres, ordered by distance). The best-scoring valid ascent between two
// elevation extrema is taken first and the flanks searched recursively, so
// one big climb with a small reversal beats the two halves it could split
// into. Results are ordered by start distance.
func Find(distance, elevation []float64, p Params) []Climb {
	n := min(len(distance), len(elevation))
	if n < 2 {
		return nil
	}
	ext := extrema(elevation[:n])
	var out []Climb
	search(distance, elevation, ext, 0, len(ext)-1, p, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].StartDistance < out[j].StartDistance })
	return out
}

// search finds the best climb between extrema positions [lo, hi] and
// recurses on what remains either side of it.
func search(distance, elevation []float64, ext []int, lo, hi int, p Params, out *[]Climb) {
	if hi <= lo {
		return
	}
	bestScore := 0.0
	bi, bj := -1, -1
	for a := lo; a < hi; a++ {
		for b := a + 1; b <= hi; b++ {
			i, j := ext[a], ext[b]
			gain := elevation[j] - elevation[i]
			dist := distance[j] - distance[i]
			if gain < p.MinElevation || dist <= 0 {
				continue
			}
			if 100*gain/dist < p.MinGradient {
				continue
			}
			if maxDescent(elevation[i:j+1]) > p.MaxReversal*gain {
				continue
			}
			if score := gain / math.Pow(dist, p.Phi); score > bestScore {
				bestScore, bi, bj = score, a, b
			}
		}
	}
	if bi < 0 {
		return
	}
	i, j := ext[bi], ext[bj]
	*out = append(*out, Climb{
		StartDistance:   distance[i],
		FinishDistance:  distance[j],
		StartElevation:  elevation[i],
		FinishElevation: elevation[j],
	})
	search(distance, elevation, ext, lo, bi, p, out)
	search(distance, elevation, ext, bj, hi, p, out)
}

// extrema returns the indexes of the endpoints and every local minimum or
// maximum of the profile, deduplicating plateaus.
func extrema(elevation []float64) []int {
	idx := []int{0}
	dir := 0
	for i := 1; i < len(elevation); i++ {
		d := 0
		switch {
		case elevation[i] > elevation[i-1]:
			d = 1
		case elevation[i] < elevation[i-1]:
			d = -1
		}
		if d == 0 {
			continue
		}
		if dir != 0 && d != dir {
			idx = append(idx, i-1)
		}
		dir = d
	}
	if last := len(elevation) - 1; idx[len(idx)-1] != last {
		idx = append(idx, last)
	}
	return idx
}

// maxDescent returns the largest peak-to-trough drop within the span.
func maxDescent(elevation []float64) float64 {
	peak, worst := math.Inf(-1), 0.0
	for _, e := range elevation {
		if math.IsNaN(e) {
			continue
		}
		peak = math.Max(peak, e)
		worst = math.Max(worst, peak-e)
	}
	return worst
}
