// Package climb detects candidate climbs in a distance/elevation profile and
// aggregates them into a total-climbed figure.
package climb

import "sort"

// Climb is one candidate ascending interval along the route. Distances and
// elevations are in metres.
type Climb struct {
	StartDistance   float64
	FinishDistance  float64
	StartElevation  float64
	FinishElevation float64
}

// Elevation returns the climb's magnitude, negative for a descent.
func (c Climb) Elevation() float64 { return c.FinishElevation - c.StartElevation }

// TotalClimbed returns the summed elevation of the biggest non-overlapping
// climbs: candidates are taken in descending magnitude (ties keep input
// order) and accepted only when their distance span is disjoint from every
// climb already accepted. Greedy rather than globally optimal, so the figure
// always reflects the biggest single climbs. Descents are excluded; no
// candidates means zero.
func TotalClimbed(climbs []Climb) float64 {
	rising := make([]Climb, 0, len(climbs))
	for _, c := range climbs {
		if c.Elevation() > 0 {
			rising = append(rising, c)
		}
	}
	sort.SliceStable(rising, func(i, j int) bool {
		return rising[i].Elevation() > rising[j].Elevation()
	})

	var total float64
	var accepted []Climb
	for _, c := range rising {
		overlaps := false
		for _, a := range accepted {
			if a.StartDistance <= c.FinishDistance && a.FinishDistance >= c.StartDistance {
				overlaps = true
				break
			}
		}
		if !overlaps {
			total += c.Elevation()
			accepted = append(accepted, c)
		}
	}
	return total
}
