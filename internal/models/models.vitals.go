package models

import "time"

// MotionState classifies the collar accelerometer reading.
type MotionState string

const (
	MotionStable MotionState = "STABLE"
	MotionMoving MotionState = "MOVING"
	MotionCrash  MotionState = "HIT/CRASH"
)

// VitalsSample is one collar snapshot: motion classification plus
// temperature and heart rate.
type VitalsSample struct {
	ID           int64       `json:"id" db:"id"`
	PetID        string      `json:"pet_id" db:"pet_id"`
	MotionState  MotionState `json:"motion_state" db:"motion_state"`
	TemperatureC float64     `json:"temperature_c" db:"temperature_c"`
	TemperatureF float64     `json:"temperature_f" db:"temperature_f"`
	HeartRate    float64     `json:"heart_rate" db:"heart_rate"`
	Timestamp    time.Time   `json:"timestamp" db:"timestamp"`
}

// Range is an inclusive [Low, High] band for a vital sign.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// VitalsRange holds the normal bands for a species/age bracket.
// Temperatures are in Fahrenheit, heart rate in BPM.
type VitalsRange struct {
	HeartRate   Range `json:"heart_rate"`
	Temperature Range `json:"temperature"`
}

// VitalStatus is the classification of a value against its normal band.
type VitalStatus string

const (
	StatusLow    VitalStatus = "Low"
	StatusNormal VitalStatus = "Normal"
	StatusHigh   VitalStatus = "High"
)

// ActivitySummary aggregates today's motion states. One sample is
// one minute of activity.
type ActivitySummary struct {
	CalmMinutes   int `json:"calm_minutes" db:"calm_minutes"`
	ActiveMinutes int `json:"active_minutes" db:"active_minutes"`
	HitCount      int `json:"hit_count" db:"hit_count"`
}
