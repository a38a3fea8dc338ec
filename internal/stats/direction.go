package stats

import (
	"fmt"
	"math"

	"github.com/ridelog/ridestats/internal/series"
)

// DirectionStats reports the bearing from the start to the mean position of
// the route and the route's aspect ratio: spread across that bearing divided
// by spread along it (1 is a round trip area, near 0 an out-and-back line).
func DirectionStats(t *series.Table) (map[string]float64, error) {
	if !t.HasColumn(ColMercatorX) || !t.HasColumn(ColMercatorY) {
		return nil, fmt.Errorf("missing %s/%s columns", ColMercatorX, ColMercatorY)
	}
	var xs, ys []float64
	for i := range t.Index {
		x, y := t.Column(ColMercatorX)[i], t.Column(ColMercatorY)[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return map[string]float64{}, nil
	}

	x0, y0 := xs[0], ys[0]
	var dx, dy float64
	for i := range xs {
		dx += xs[i] - x0
		dy += ys[i] - y0
	}
	dx /= float64(len(xs))
	dy /= float64(len(ys))
	x1, y1 := x0+dx, y0+dy
	theta := math.Atan2(dy, dx)

	// rotate into coordinates parallel / perpendicular to the start-to-centre
	// line, centred on the mean position
	us := make([]float64, len(xs))
	vs := make([]float64, len(ys))
	for i := range xs {
		px, py := xs[i]-x1, ys[i]-y1
		us[i] = px*math.Cos(theta) + py*math.Sin(theta)
		vs[i] = py*math.Cos(theta) - px*math.Sin(theta)
	}
	su, sv := stddev(us), stddev(vs)
	if su == 0 {
		return map[string]float64{}, nil
	}
	return map[string]float64{
		Direction:   90 - 180*theta/math.Pi, // angle from x axis to bearing
		AspectRatio: sv / su,
	}, nil
}

// stddev is the sample standard deviation.
func stddev(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
