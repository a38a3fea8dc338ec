// Package stats derives the per-activity statistic mapping: one-pass
// summaries, pace-for-distance splits, heart-rate-zone occupancy, rolling
// best-effort windows, route direction and total climb.
package stats

// Column names understood by the statistic families. Absence of a column
// omits the statistics that need it, never fails the whole computation.
const (
	ColDistance      = "distance"       // km from start
	ColElevation     = "elevation"      // m, smoothed
	ColGrade         = "grade"          // percent
	ColHeartRate     = "heart_rate"     // bpm
	ColHRZone        = "hr_zone"        // continuous zone value
	ColPowerEstimate = "power_estimate" // W
	ColMercatorX     = "x"              // spherical mercator, m
	ColMercatorY     = "y"              // spherical mercator, m
)

// Statistic names. Parametrized names take the window length in minutes,
// the distance in km, or the zone index.
const (
	ActiveDistance = "Active Distance" // km
	ActiveTime     = "Active Time"     // s
	ActiveSpeed    = "Active Speed"    // km/h
	MinKMTime      = "Min %d km Time"  // s
	MedKMTime      = "Med %d km Time"  // s
	PercentInZ     = "Percent in Z%d"
	TimeInZ        = "Time in Z%d"    // s
	MaxMedHR       = "Max Med HR %dm" // bpm
	MaxMeanPE      = "Max Mean PE %dm" // W
	Direction      = "Direction"       // deg clockwise from north
	AspectRatio    = "Aspect Ratio"
	TotalClimb     = "Total Climb" // m
	Time           = "Time"        // s, total elapsed
)

// MaxMinutes are the rolling best-effort window lengths, in minutes.
var MaxMinutes = []int{5, 10, 30, 60, 90, 120, 180}

// RoundKM returns the distance split targets in km: 5..20 by 5, 25..75 by
// 25, 100..250 by 50, 300..1000 by 100.
func RoundKM() []int {
	var km []int
	for v := 5; v <= 20; v += 5 {
		km = append(km, v)
	}
	for v := 25; v <= 75; v += 25 {
		km = append(km, v)
	}
	for v := 100; v <= 250; v += 50 {
		km = append(km, v)
	}
	for v := 300; v <= 1000; v += 100 {
		km = append(km, v)
	}
	return km
}
