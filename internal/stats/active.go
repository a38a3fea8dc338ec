package stats

import (
	"fmt"
	"math"

	"github.com/ridelog/ridestats/internal/series"
)

// ActiveStats sums distance and elapsed time over each active span and
// derives the average moving speed. Paused time between spans contributes
// nothing.
func ActiveStats(t *series.Table) (map[string]float64, error) {
	if !t.HasColumn(ColDistance) {
		return nil, fmt.Errorf("missing %s column", ColDistance)
	}
	if len(t.Timespan) == 0 {
		return nil, fmt.Errorf("no timespan data")
	}
	dist := t.Column(ColDistance)
	var activeDist, activeTime float64
	for _, id := range t.Timespans() {
		dLo, dHi := math.Inf(1), math.Inf(-1)
		tLo, tHi := math.Inf(1), math.Inf(-1)
		for i, span := range t.Timespan {
			if span != id {
				continue
			}
			if !math.IsNaN(dist[i]) {
				dLo = math.Min(dLo, dist[i])
				dHi = math.Max(dHi, dist[i])
			}
			tLo = math.Min(tLo, t.Index[i])
			tHi = math.Max(tHi, t.Index[i])
		}
		if dHi >= dLo {
			activeDist += dHi - dLo
		}
		if tHi >= tLo {
			activeTime += tHi - tLo
		}
	}
	out := map[string]float64{
		ActiveDistance: activeDist,
		ActiveTime:     activeTime,
		ActiveSpeed:    0,
	}
	if activeTime > 0 {
		out[ActiveSpeed] = 3600 * activeDist / activeTime
	}
	return out, nil
}
