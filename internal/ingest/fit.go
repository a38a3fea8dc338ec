// Package ingest reads FIT activity recordings into the sample tables the
// statistics engine consumes.
package ingest

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tormoder/fit"

	"github.com/ridelog/ridestats/internal/elevation"
	"github.com/ridelog/ridestats/internal/series"
	"github.com/ridelog/ridestats/internal/stats"
)

// Activity is one decoded recording: metadata plus the sample table.
type Activity struct {
	ID     uuid.UUID
	Sport  string
	Start  time.Time
	Finish time.Time
	Table  *series.Table
}

// ReadFile decodes a FIT file from disk. hrMax calibrates the heart-rate
// zone column.
func ReadFile(path string, hrMax int) (*Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(data, hrMax)
}

// Read decodes a FIT recording. Record messages become table rows indexed by
// seconds since the first record; timer start/stop events delimit the active
// timespans. Channels the device did not record stay NaN so the statistics
// that need them are simply omitted.
func Read(data []byte, hrMax int) (*Activity, error) {
	f, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode fit: %w", err)
	}
	af, err := f.Activity()
	if err != nil {
		return nil, fmt.Errorf("not an activity file: %w", err)
	}
	if len(af.Records) == 0 {
		return nil, fmt.Errorf("no records in activity")
	}

	start := af.Records[0].Timestamp
	finish := af.Records[len(af.Records)-1].Timestamp
	sport := "unknown"
	if len(af.Sessions) > 0 {
		sport = af.Sessions[0].Sport.String()
	}

	spans := timespans(af.Events)
	n := len(af.Records)
	index := make([]float64, 0, n)
	span := make([]int64, 0, n)
	dist := make([]float64, 0, n)
	rawElev := make([]float64, 0, n)
	hr := make([]float64, 0, n)
	zone := make([]float64, 0, n)
	power := make([]float64, 0, n)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)

	for _, rec := range af.Records {
		index = append(index, rec.Timestamp.Sub(start).Seconds())
		span = append(span, spans.at(rec.Timestamp))
		dist = append(dist, rec.GetDistanceScaled()/1000)
		rawElev = append(rawElev, altitude(rec))
		hr = append(hr, heartRate(rec))
		zone = append(zone, hrZone(heartRate(rec), hrMax))
		power = append(power, powerWatts(rec))
		x, y := mercator(rec.PositionLat.Degrees(), rec.PositionLong.Degrees())
		xs = append(xs, x)
		ys = append(ys, y)
	}

	elev, grade := elevation.Smooth(dist, rawElev)

	t := series.NewTable(index)
	t.Timespan = span
	t.Columns[stats.ColDistance] = dist
	t.Columns[stats.ColElevation] = elev
	t.Columns[stats.ColGrade] = grade
	t.Columns[stats.ColHeartRate] = hr
	t.Columns[stats.ColHRZone] = zone
	t.Columns[stats.ColPowerEstimate] = power
	t.Columns[stats.ColMercatorX] = xs
	t.Columns[stats.ColMercatorY] = ys
	dropEmptyColumns(t)

	return &Activity{
		ID:     uuid.New(),
		Sport:  sport,
		Start:  start,
		Finish: finish,
		Table:  t,
	}, nil
}

// timerSpan is one timer-delimited active span. A zero stop means the timer
// never stopped.
type timerSpan struct {
	start, stop time.Time
	id          int64
}

type spanList []timerSpan

// timespans builds active spans from timer events. Recordings without timer
// events get one span covering everything.
func timespans(events []*fit.EventMsg) spanList {
	var spans spanList
	var open *time.Time
	for _, ev := range events {
		if ev.Event != fit.EventTimer {
			continue
		}
		switch ev.EventType {
		case fit.EventTypeStart:
			if open == nil {
				ts := ev.Timestamp
				open = &ts
			}
		case fit.EventTypeStop, fit.EventTypeStopAll:
			if open != nil {
				spans = append(spans, timerSpan{*open, ev.Timestamp, int64(len(spans))})
				open = nil
			}
		}
	}
	if open != nil {
		spans = append(spans, timerSpan{*open, time.Time{}, int64(len(spans))})
	}
	return spans
}

func (s spanList) at(ts time.Time) int64 {
	if len(s) == 0 {
		return 0
	}
	for _, span := range s {
		if ts.Before(span.start) {
			continue
		}
		if span.stop.IsZero() || !ts.After(span.stop) {
			return span.id
		}
	}
	return series.NoTimespan
}

func altitude(rec *fit.RecordMsg) float64 {
	if v := rec.GetEnhancedAltitudeScaled(); !math.IsNaN(v) {
		return v
	}
	return rec.GetAltitudeScaled()
}

func heartRate(rec *fit.RecordMsg) float64 {
	if rec.HeartRate == 0xFF || rec.HeartRate == 0 {
		return math.NaN()
	}
	return float64(rec.HeartRate)
}

func powerWatts(rec *fit.RecordMsg) float64 {
	if rec.Power == 0xFFFF {
		return math.NaN()
	}
	return float64(rec.Power)
}

// zoneCuts are the band boundaries as fractions of maximum heart rate.
var zoneCuts = []float64{0, 0.70, 0.80, 0.88, 0.95, 1}

// hrZone maps a heart rate onto a continuous zone value in [1, 6]: the band
// index plus the fraction of the band covered.
func hrZone(hr float64, hrMax int) float64 {
	if math.IsNaN(hr) || hrMax <= 0 {
		return math.NaN()
	}
	r := hr / float64(hrMax)
	if r >= 1 {
		return 6
	}
	for k := 0; k < len(zoneCuts)-1; k++ {
		if r < zoneCuts[k+1] {
			return float64(k+1) + (r-zoneCuts[k])/(zoneCuts[k+1]-zoneCuts[k])
		}
	}
	return 6
}

const earthRadius = 6378137.0

// mercator projects WGS84 degrees onto spherical mercator metres.
func mercator(latDeg, lonDeg float64) (x, y float64) {
	if math.IsNaN(latDeg) || math.IsNaN(lonDeg) {
		return math.NaN(), math.NaN()
	}
	x = earthRadius * lonDeg * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+latDeg*math.Pi/360))
	return x, y
}

// dropEmptyColumns removes columns with no readings at all, so downstream
// statistics see genuine absence rather than all-NaN data.
func dropEmptyColumns(t *series.Table) {
	for name, col := range t.Columns {
		all := true
		for _, v := range col {
			if !math.IsNaN(v) {
				all = false
				break
			}
		}
		if all {
			delete(t.Columns, name)
		}
	}
}
