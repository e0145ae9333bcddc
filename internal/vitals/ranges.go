// Package vitals classifies collar telemetry against species- and
// age-specific normal ranges and converts threshold crossings into
// edge-triggered alerts.
package vitals

import (
	"strings"
	"time"

	"github.com/petprotect/hub/internal/models"
)

// ageBand is one row of the reference table. Age brackets are inclusive on
// the lower bound, exclusive on the upper.
type ageBand struct {
	group     string
	minAge    float64
	maxAge    float64
	heartRate models.Range
	temp      models.Range
}

// Reference ranges by species and age group. Temperatures are Fahrenheit,
// heart rates BPM. Read-only.
var vitalsTable = map[string][]ageBand{
	"cat": {
		{group: "Kitten", minAge: 0, maxAge: 1, heartRate: models.Range{Low: 200, High: 260}, temp: models.Range{Low: 100.4, High: 102.9}},
		{group: "Adult", minAge: 1, maxAge: 8, heartRate: models.Range{Low: 140, High: 220}, temp: models.Range{Low: 100.4, High: 102.9}},
		{group: "Senior", minAge: 8, maxAge: 100, heartRate: models.Range{Low: 120, High: 180}, temp: models.Range{Low: 100.4, High: 102.9}},
	},
	"dog": {
		{group: "Puppy", minAge: 0, maxAge: 1, heartRate: models.Range{Low: 160, High: 220}, temp: models.Range{Low: 99.5, High: 102.6}},
		{group: "Adult", minAge: 1, maxAge: 8, heartRate: models.Range{Low: 70, High: 120}, temp: models.Range{Low: 99.5, High: 102.6}},
		{group: "Senior", minAge: 8, maxAge: 100, heartRate: models.Range{Low: 50, High: 100}, temp: models.Range{Low: 99.5, High: 102.6}},
	},
}

// fallbackRange is served for unknown species or out-of-table ages; the
// caller always gets something to render.
var fallbackRange = models.VitalsRange{
	HeartRate:   models.Range{Low: 60, High: 140},
	Temperature: models.Range{Low: 101.0, High: 102.5},
}

// RangeFor returns the normal vitals bands for the given species and age in
// years. Unrecognized species never fail; they get the fallback range.
func RangeFor(species string, ageYears float64) models.VitalsRange {
	table, ok := vitalsTable[strings.ToLower(species)]
	if !ok {
		return fallbackRange
	}

	for _, band := range table {
		if ageYears >= band.minAge && ageYears < band.maxAge {
			return models.VitalsRange{HeartRate: band.heartRate, Temperature: band.temp}
		}
	}

	return fallbackRange
}

// StatusOf classifies a value against an inclusive [Low, High] band. Total
// over numeric input: exactly one of Low, Normal, High.
func StatusOf(value float64, r models.Range) models.VitalStatus {
	if value < r.Low {
		return models.StatusLow
	}
	if value > r.High {
		return models.StatusHigh
	}
	return models.StatusNormal
}

// IsStale reports whether a sample is too old to act on. Stale samples must
// not update alert state or be served to clients; a frozen upstream value
// looks exactly like a healthy pet.
func IsStale(sample *models.VitalsSample, now time.Time, window time.Duration) bool {
	return now.Sub(sample.Timestamp) > window
}
