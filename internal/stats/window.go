package stats

import (
	"fmt"

	"github.com/ridelog/ridestats/internal/series"
)

const (
	// timeDelta is the grid spacing for time-indexed resampling, in seconds.
	timeDelta = 10.0
	// gapFraction bounds how large a sampling gap may be relative to the
	// rolling window it would sit inside.
	gapFraction = 0.01
)

// Signal binds an input column to the parametrized statistic name its
// best-window values are reported under.
type Signal struct {
	Column   string
	Template string
}

// MaxMeanStats computes the best windowed mean of the power estimate for
// each target window length.
func MaxMeanStats(t *series.Table) (map[string]float64, error) {
	return maxMeanStats(t, []Signal{{ColPowerEstimate, MaxMeanPE}}, MaxMinutes, timeDelta)
}

// maxMeanStats resamples onto a uniform time grid, zero-fills every grid
// point outside all active spans (paused time counts against the mean, by
// contrast with maxMedStats), and takes the best n-sample cumulative-sum
// window per target.
func maxMeanStats(t *series.Table, signals []Signal, mins []int, dt float64) (map[string]float64, error) {
	r, err := t.Resample(dt, series.ResampleOptions{KeepTimespan: true, KeepGaps: true})
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, sig := range signals {
		col := r.Column(sig.Column)
		if col == nil {
			continue
		}
		values := make([]float64, len(col))
		for i, v := range col {
			if outOfSpan(r, i) {
				values[i] = 0
			} else {
				values[i] = v
			}
		}
		for _, target := range mins {
			n := int(float64(target) * 60 / dt)
			if best, ok := series.MaxWindowMean(values, n); ok {
				out[fmt.Sprintf(sig.Template, target)] = best
			}
		}
	}
	return out, nil
}

// MaxMedStats computes the best windowed median of heart rate for each
// target window length.
func MaxMedStats(t *series.Table) (map[string]float64, error) {
	return maxMedStats(t, []Signal{{ColHeartRate, MaxMedHR}}, MaxMinutes, timeDelta, gapFraction)
}

// maxMedStats resamples with gaps kept as sentinels and restricts each
// rolling median to a single gap-free segment, so a median never spans a
// pause or dropout. When several signals share one statistic name the
// largest value wins.
func maxMedStats(t *series.Table, signals []Signal, mins []int, dt, gap float64) (map[string]float64, error) {
	r, err := t.Resample(dt, series.ResampleOptions{KeepTimespan: true, KeepGaps: true})
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, target := range mins {
		window := float64(target) * 60
		n := int(window / dt)
		if n < 1 {
			continue
		}
		maxGap := series.GapThreshold(window, gap, dt)
		for _, segment := range series.SplitGaps(r, t.Index, maxGap) {
			for _, sig := range signals {
				col := segment.Column(sig.Column)
				if col == nil {
					continue
				}
				best, ok := series.Max(series.RollingMedian(col, n))
				if !ok {
					continue
				}
				name := fmt.Sprintf(sig.Template, target)
				if prev, exists := out[name]; !exists || best > prev {
					out[name] = best
				}
			}
		}
	}
	return out, nil
}

func outOfSpan(t *series.Table, i int) bool {
	return len(t.Timespan) > 0 && t.Timespan[i] == series.NoTimespan
}
