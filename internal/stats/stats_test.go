package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ridelog/ridestats/internal/series"
)

func TestActiveStats(t *testing.T) {
	// two spans: 0-100 s covering 1 km, 200-300 s covering 2 km
	idx := []float64{0, 50, 100, 200, 250, 300}
	tbl := series.NewTable(idx)
	tbl.Columns[ColDistance] = []float64{0, 0.5, 1, 1, 2, 3}
	tbl.Timespan = []int64{0, 0, 0, 1, 1, 1}

	got, err := ActiveStats(tbl)
	require.NoError(t, err)
	require.Equal(t, 3.0, got[ActiveDistance])
	require.Equal(t, 200.0, got[ActiveTime])
	require.Equal(t, 3600*3.0/200, got[ActiveSpeed])
}

func TestTimesForDistance(t *testing.T) {
	// constant 36 km/h: 0.01 km per second, 10 km in 1000 s
	var idx, dist []float64
	for s := 0.0; s <= 1000; s += 10 {
		idx = append(idx, s)
		dist = append(dist, s*0.01)
	}
	tbl := series.NewTable(idx)
	tbl.Columns[ColDistance] = dist

	got, err := TimesForDistance(tbl)
	require.NoError(t, err)
	require.InDelta(t, 500, got[fmt.Sprintf(MinKMTime, 5)], 1e-6)
	require.InDelta(t, 500, got[fmt.Sprintf(MedKMTime, 5)], 1e-6)
	// activity is only 10 km long
	require.NotContains(t, got, fmt.Sprintf(MinKMTime, 15))
	require.NotContains(t, got, fmt.Sprintf(MinKMTime, 1000))
}

func TestHRZoneStats(t *testing.T) {
	// half the time in zone 2, half in zone 4
	n := 100
	idx := make([]float64, n)
	zones := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i) * 10
		if i < n/2 {
			zones[i] = 2.4
		} else {
			zones[i] = 4.2
		}
	}
	tbl := series.NewTable(idx)
	tbl.Columns[ColHRZone] = zones

	got, err := HRZoneStats(tbl)
	require.NoError(t, err)
	require.InDelta(t, 50, got[fmt.Sprintf(PercentInZ, 2)], 1.5)
	require.InDelta(t, 50, got[fmt.Sprintf(PercentInZ, 4)], 1.5)
	require.NotContains(t, got, fmt.Sprintf(PercentInZ, 1))
	total := got[fmt.Sprintf(TimeInZ, 2)] + got[fmt.Sprintf(TimeInZ, 4)]
	require.InDelta(t, 990, total, 15)
}

func TestDirectionStats(t *testing.T) {
	// straight line due east
	n := 50
	idx := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
		xs[i] = float64(i) * 100
		ys[i] = 0
	}
	tbl := series.NewTable(idx)
	tbl.Columns[ColMercatorX] = xs
	tbl.Columns[ColMercatorY] = ys

	got, err := DirectionStats(tbl)
	require.NoError(t, err)
	require.InDelta(t, 90, got[Direction], 1e-9)
	require.Equal(t, 0.0, got[AspectRatio])
}

func TestCalculatorMergesFamilies(t *testing.T) {
	idx := []float64{0, 100, 200, 300}
	tbl := series.NewTable(idx)
	tbl.Columns[ColDistance] = []float64{0, 1, 2, 3}
	tbl.Timespan = []int64{0, 0, 0, 0}

	got, err := NewCalculator(zerolog.Nop()).Compute(context.Background(), tbl)
	require.NoError(t, err)
	// families with satisfied columns contribute
	require.Contains(t, got, ActiveDistance)
	// families missing columns are simply absent, never errors
	require.NotContains(t, got, Direction)
	for name := range got {
		require.False(t, math.IsNaN(got[name]), "NaN leaked into %s", name)
	}
}

func TestCalculatorIsolatesFailures(t *testing.T) {
	c := &Calculator{log: zerolog.Nop()}
	c.Register(Family{"boom", nil, func(*series.Table) (map[string]float64, error) {
		return nil, errors.New("internal failure")
	}})
	c.Register(Family{"ok", nil, func(*series.Table) (map[string]float64, error) {
		return map[string]float64{"Value": 1}, nil
	}})

	got, err := c.Compute(context.Background(), series.NewTable([]float64{0, 1}))
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Value": 1}, got)
}

func TestCalculatorPropagatesContractViolations(t *testing.T) {
	c := &Calculator{log: zerolog.Nop()}
	c.Register(Family{"bad caller", nil, func(*series.Table) (map[string]float64, error) {
		return nil, fmt.Errorf("wrapped: %w", series.ErrContract)
	}})
	_, err := c.Compute(context.Background(), series.NewTable([]float64{0, 1}))
	require.ErrorIs(t, err, series.ErrContract)
}

func TestCalculatorMergeTakesMaximum(t *testing.T) {
	c := &Calculator{log: zerolog.Nop()}
	c.Register(Family{"first", nil, func(*series.Table) (map[string]float64, error) {
		return map[string]float64{"Shared": 10, "Own": 1}, nil
	}})
	c.Register(Family{"second", nil, func(*series.Table) (map[string]float64, error) {
		return map[string]float64{"Shared": 7}, nil
	}})

	got, err := c.Compute(context.Background(), series.NewTable([]float64{0, 1}))
	require.NoError(t, err)
	require.Equal(t, 10.0, got["Shared"], "a later family may raise, never lower")
	require.Equal(t, 1.0, got["Own"])
}

func TestCalculatorChecksCancellationBetweenFamilies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculator(zerolog.Nop()).Compute(ctx, series.NewTable([]float64{0, 1}))
	require.ErrorIs(t, err, context.Canceled)
}
