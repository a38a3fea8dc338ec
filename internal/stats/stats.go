package stats

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ridelog/ridestats/internal/series"
)

// Family is one registered statistic function: a name for diagnostics, the
// columns it cannot run without, and the computation itself. Each family
// owns a distinct statistic-name namespace, except where two signals are
// designed to share a name and the larger value wins.
type Family struct {
	Name    string
	Columns []string
	Compute func(*series.Table) (map[string]float64, error)
}

// Calculator fans one activity's sample table out to every registered
// family and merges their mappings. Families fail independently: a family
// that errors is logged and skipped, never aborting the rest.
type Calculator struct {
	log      zerolog.Logger
	families []Family
}

// NewCalculator returns a Calculator with the standard families registered.
func NewCalculator(log zerolog.Logger) *Calculator {
	c := &Calculator{log: log}
	c.Register(Family{"active", []string{ColDistance}, ActiveStats})
	c.Register(Family{"times for distance", []string{ColDistance}, TimesForDistance})
	c.Register(Family{"hr zones", []string{ColHRZone}, HRZoneStats})
	c.Register(Family{"max med", []string{ColHeartRate}, MaxMedStats})
	c.Register(Family{"max mean", []string{ColPowerEstimate}, MaxMeanStats})
	c.Register(Family{"direction", []string{ColMercatorX, ColMercatorY}, DirectionStats})
	c.Register(Family{"climbs", []string{ColDistance, ColElevation}, ClimbStats})
	return c
}

// Register appends a family to the computation order.
func (c *Calculator) Register(f Family) { c.families = append(c.families, f) }

// Compute runs every family over the table and returns the merged mapping.
// Missing statistics are absent keys, never sentinel values. Contract
// violations (ErrContract) and context cancellation propagate; everything
// else is isolated per family. The context is only checked between
// families.
func (c *Calculator) Compute(ctx context.Context, t *series.Table) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, f := range c.families {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if missing := missingColumns(t, f.Columns); missing != "" {
			c.log.Debug().Str("family", f.Name).Str("column", missing).
				Msg("skipping statistics, column absent")
			continue
		}
		values, err := f.Compute(t)
		if err != nil {
			if errors.Is(err, series.ErrContract) {
				return nil, err
			}
			c.log.Warn().Err(err).Str("family", f.Name).Msg("statistics failed")
			continue
		}
		for name, value := range values {
			if prev, ok := out[name]; !ok || value > prev {
				out[name] = value
			}
		}
	}
	return out, nil
}

func missingColumns(t *series.Table, names []string) string {
	for _, name := range names {
		if !t.HasColumn(name) {
			return name
		}
	}
	return ""
}
