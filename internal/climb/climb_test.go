package climb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalClimbedDisjoint(t *testing.T) {
	climbs := []Climb{
		{StartDistance: 0, FinishDistance: 1000, StartElevation: 0, FinishElevation: 100},
		{StartDistance: 2000, FinishDistance: 3000, StartElevation: 50, FinishElevation: 250},
	}
	if got := TotalClimbed(climbs); got != 300 {
		t.Errorf("disjoint climbs total = %v, want 300", got)
	}
}

func TestTotalClimbedOverlapKeepsBiggest(t *testing.T) {
	climbs := []Climb{
		{StartDistance: 0, FinishDistance: 1000, StartElevation: 0, FinishElevation: 100},
		{StartDistance: 500, FinishDistance: 1500, StartElevation: 0, FinishElevation: 160},
	}
	if got := TotalClimbed(climbs); got != 160 {
		t.Errorf("overlapping climbs total = %v, want 160 (bigger only)", got)
	}
}

func TestTotalClimbedEdgeCases(t *testing.T) {
	if got := TotalClimbed(nil); got != 0 {
		t.Errorf("empty input total = %v, want 0", got)
	}
	descents := []Climb{
		{StartDistance: 0, FinishDistance: 1000, StartElevation: 100, FinishElevation: 0},
		{StartDistance: 2000, FinishDistance: 2500, StartElevation: 80, FinishElevation: 80},
	}
	if got := TotalClimbed(descents); got != 0 {
		t.Errorf("non-positive climbs total = %v, want 0", got)
	}
}

func TestTotalClimbedGreedyNotOptimal(t *testing.T) {
	// one big climb overlapping two smaller ones whose sum is larger: the
	// big single climb still wins
	climbs := []Climb{
		{StartDistance: 0, FinishDistance: 900, StartElevation: 0, FinishElevation: 90},
		{StartDistance: 1100, FinishDistance: 2000, StartElevation: 0, FinishElevation: 90},
		{StartDistance: 0, FinishDistance: 2000, StartElevation: 0, FinishElevation: 100},
	}
	if got := TotalClimbed(climbs); got != 100 {
		t.Errorf("greedy total = %v, want 100", got)
	}
}

// rampTrack linearly interpolates samples along (distance, elevation)
// vertices at the given speed (m/s) and time step.
func rampTrack(vertices [][2]float64, speed, dt float64) (dist, elev []float64) {
	t0, x0, y0 := 0.0, vertices[0][0], vertices[0][1]
	tc := t0
	for _, v := range vertices[1:] {
		x1, y1 := v[0], v[1]
		t1 := x1 / speed
		for tc <= t1 {
			frac := (tc - t0) / (t1 - t0)
			dist = append(dist, x0+(x1-x0)*frac)
			elev = append(elev, y0+(y1-y0)*frac)
			tc += dt
		}
		t0, x0, y0 = t1, x1, y1
	}
	return dist, elev
}

func TestFindSingleRamp(t *testing.T) {
	dist, elev := rampTrack([][2]float64{{0, 0}, {1000, 100}, {2000, 0}}, 10, 1)
	require.Len(t, dist, 201)

	climbs := Find(dist, elev, DefaultParams())
	require.Len(t, climbs, 1)
	require.Equal(t, 0.0, climbs[0].StartDistance)
	require.Equal(t, 1000.0, climbs[0].FinishDistance)
	require.Equal(t, 100.0, climbs[0].Elevation())
}

func TestFindReversalTolerance(t *testing.T) {
	// a 10 m dip inside a 150 m climb is tolerated; a 20 m dip is not
	dist, elev := rampTrack([][2]float64{{0, 0}, {1100, 100}, {1200, 90}, {1500, 150}}, 10, 1)
	climbs := Find(dist, elev, DefaultParams())
	require.Len(t, climbs, 1)
	require.Equal(t, 150.0, climbs[0].Elevation())

	dist, elev = rampTrack([][2]float64{{0, 0}, {1100, 100}, {1200, 80}, {1500, 150}}, 10, 1)
	climbs = Find(dist, elev, DefaultParams())
	require.Len(t, climbs, 1)
	require.Equal(t, 100.0, climbs[0].Elevation())
}

func TestFindSplitsAroundReversal(t *testing.T) {
	dist, elev := rampTrack([][2]float64{{0, 0}, {1100, 100}, {1200, 80}, {1500, 170}}, 10, 1)
	climbs := Find(dist, elev, DefaultParams())
	require.Len(t, climbs, 2)
	require.Equal(t, 100.0, climbs[0].Elevation())
	require.Equal(t, 90.0, climbs[1].Elevation())
}

func TestFindRejectsShallowAndSmall(t *testing.T) {
	// 50 m over 10 km: big enough gradient fails (0.5 % < 3 %)
	dist, elev := rampTrack([][2]float64{{0, 0}, {10000, 50}}, 10, 1)
	if got := Find(dist, elev, DefaultParams()); len(got) != 0 {
		t.Errorf("shallow ramp produced %d climbs, want 0", len(got))
	}
	// 70 m gain is below the minimum elevation
	dist, elev = rampTrack([][2]float64{{0, 0}, {700, 70}}, 10, 1)
	if got := Find(dist, elev, DefaultParams()); len(got) != 0 {
		t.Errorf("small rise produced %d climbs, want 0", len(got))
	}
}

func TestFindHandlesDegenerateInput(t *testing.T) {
	if got := Find(nil, nil, DefaultParams()); got != nil {
		t.Errorf("empty input produced %v", got)
	}
	if got := Find([]float64{0}, []float64{10}, DefaultParams()); got != nil {
		t.Errorf("single sample produced %v", got)
	}
	flat := make([]float64, 100)
	distFlat := make([]float64, 100)
	for i := range flat {
		distFlat[i] = float64(i) * 10
		flat[i] = 25
	}
	if got := Find(distFlat, flat, DefaultParams()); len(got) != 0 {
		t.Errorf("flat profile produced %d climbs, want 0", len(got))
	}
}

func TestMaxDescent(t *testing.T) {
	if got := maxDescent([]float64{0, 50, 30, 80, 60}); got != 20 {
		t.Errorf("maxDescent = %v, want 20", got)
	}
	if got := maxDescent([]float64{0, 10, 20}); got != 0 {
		t.Errorf("monotonic maxDescent = %v, want 0", got)
	}
	if got := maxDescent([]float64{math.NaN(), 5, 2}); got != 3 {
		t.Errorf("NaN-tolerant maxDescent = %v, want 3", got)
	}
}
