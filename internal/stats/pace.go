package stats

import (
	"fmt"
	"math"

	"github.com/ridelog/ridestats/internal/series"
)

// kmDelta is the grid spacing for distance-indexed resampling, in km.
const kmDelta = 0.01

// TimesForDistance computes, for each target distance, the fastest and the
// median (typical) time needed to cover it anywhere in the activity. Elapsed
// time is re-indexed by distance, resampled onto a 10 m grid, and windows of
// n = target/delta grid steps are differenced.
func TimesForDistance(t *series.Table) (map[string]float64, error) {
	return timesForDistance(t, RoundKM(), kmDelta)
}

func timesForDistance(t *series.Table, km []int, delta float64) (map[string]float64, error) {
	if !t.HasColumn(ColDistance) {
		return nil, fmt.Errorf("missing %s column", ColDistance)
	}
	if t.Len() == 0 {
		return map[string]float64{}, nil
	}
	elapsed := make([]float64, t.Len())
	for i, v := range t.Index {
		elapsed[i] = v - t.Index[0]
	}
	_, times, err := series.ResamplePairs(t.Column(ColDistance), elapsed, delta)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, target := range km {
		n := int(math.Round(float64(target) / delta))
		if n < 1 || len(times) <= n {
			continue
		}
		diffs := make([]float64, 0, len(times)-n)
		for i := n; i < len(times); i++ {
			diffs = append(diffs, times[i]-times[i-n])
		}
		best := diffs[0]
		for _, d := range diffs {
			if d < best {
				best = d
			}
		}
		out[fmt.Sprintf(MinKMTime, target)] = best
		out[fmt.Sprintf(MedKMTime, target)] = series.Median(diffs)
	}
	return out, nil
}
