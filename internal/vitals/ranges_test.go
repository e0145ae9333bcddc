package vitals

import (
	"testing"
	"time"

	"github.com/petprotect/hub/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	r := models.Range{Low: 70, High: 120}

	tests := []struct {
		name  string
		value float64
		want  models.VitalStatus
	}{
		{"below", 69.9, models.StatusLow},
		{"lower bound inclusive", 70, models.StatusNormal},
		{"inside", 95, models.StatusNormal},
		{"upper bound inclusive", 120, models.StatusNormal},
		{"above", 120.1, models.StatusHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.value, r))
		})
	}
}

func TestRangeFor(t *testing.T) {
	tests := []struct {
		name    string
		species string
		age     float64
		wantHR  models.Range
	}{
		{"puppy", "dog", 0.5, models.Range{Low: 160, High: 220}},
		{"adult dog lower bound", "dog", 1, models.Range{Low: 70, High: 120}},
		{"adult dog", "Dog", 4, models.Range{Low: 70, High: 120}},
		{"senior dog bracket start", "dog", 8, models.Range{Low: 50, High: 100}},
		{"kitten", "cat", 0.2, models.Range{Low: 200, High: 260}},
		{"senior cat", "CAT", 12, models.Range{Low: 120, High: 180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantHR, RangeFor(tt.species, tt.age).HeartRate)
		})
	}
}

func TestRangeForFallback(t *testing.T) {
	want := models.VitalsRange{
		HeartRate:   models.Range{Low: 60, High: 140},
		Temperature: models.Range{Low: 101.0, High: 102.5},
	}

	assert.Equal(t, want, RangeFor("ferret", 2), "unknown species")
	assert.Equal(t, want, RangeFor("dog", 150), "age beyond all brackets")
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 20 * time.Second

	fresh := &models.VitalsSample{Timestamp: now.Add(-10 * time.Second)}
	stale := &models.VitalsSample{Timestamp: now.Add(-25 * time.Second)}

	assert.False(t, IsStale(fresh, now, window))
	assert.True(t, IsStale(stale, now, window))
}
