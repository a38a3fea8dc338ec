package stats

import (
	"fmt"

	"github.com/ridelog/ridestats/internal/climb"
	"github.com/ridelog/ridestats/internal/series"
)

// ClimbStats detects climbs along the route's elevation profile and reports
// the total climbed over the biggest non-overlapping ones.
func ClimbStats(t *series.Table) (map[string]float64, error) {
	if !t.HasColumn(ColDistance) || !t.HasColumn(ColElevation) {
		return nil, fmt.Errorf("missing %s/%s columns", ColDistance, ColElevation)
	}
	dist := make([]float64, t.Len())
	for i, km := range t.Column(ColDistance) {
		dist[i] = km * 1000
	}
	climbs := climb.Find(dist, t.Column(ColElevation), climb.DefaultParams())
	if len(climbs) == 0 {
		return map[string]float64{}, nil
	}
	return map[string]float64{TotalClimb: climb.TotalClimbed(climbs)}, nil
}
