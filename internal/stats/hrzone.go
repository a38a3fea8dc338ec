package stats

import (
	"fmt"
	"math"

	"github.com/ridelog/ridestats/internal/series"
)

// HRZoneStats measures occupancy of heart-rate zones 1..6: percentage of
// samples and total time with the continuous zone value in [z, z+1). The
// table is resampled onto a uniform grid at its own median sampling interval
// so irregular recording does not skew the counts.
func HRZoneStats(t *series.Table) (map[string]float64, error) {
	if !t.HasColumn(ColHRZone) {
		return nil, fmt.Errorf("missing %s column", ColHRZone)
	}
	dt := series.MedianDT(t.Index)
	if math.IsNaN(dt) || dt <= 0 {
		return map[string]float64{}, nil
	}
	r, err := t.Resample(dt, series.ResampleOptions{KeepTimespan: true})
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	total := 0
	for _, z := range r.Column(ColHRZone) {
		if math.IsNaN(z) || z < 1 || z >= 7 {
			continue
		}
		counts[int(z)]++
		total++
	}
	out := make(map[string]float64)
	if total == 0 {
		return out, nil
	}
	for zone, count := range counts {
		out[fmt.Sprintf(PercentInZ, zone)] = 100 * float64(count) / float64(total)
		out[fmt.Sprintf(TimeInZ, zone)] = dt * float64(count)
	}
	return out, nil
}
