package vitals

import (
	"context"
	"sync"
	"testing"

	"github.com/petprotect/hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Dispatch(ctx context.Context, petID, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *recordingNotifier) count(title string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, t := range n.titles {
		if t == title {
			c++
		}
	}
	return c
}

// Adult dog: HR 70-120, temp 99.5-102.6.
func adultDogSample(temperatureF, heartRate float64, motion models.MotionState) *models.VitalsSample {
	return &models.VitalsSample{
		PetID:        "42",
		TemperatureF: temperatureF,
		HeartRate:    heartRate,
		MotionState:  motion,
	}
}

func TestDetectorOneAlertPerEpisode(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDetector(notifier)
	ctx := context.Background()

	// Sustained high temperature: many samples, one alert.
	for i := 0; i < 5; i++ {
		d.Evaluate(ctx, "42", adultDogSample(104.0, 90, models.MotionStable), "dog", 4)
	}

	assert.Equal(t, 1, notifier.count("High Temperature Alert"))
	assert.True(t, d.Flags("42").HighTemp)
}

func TestDetectorRearmsAfterRecovery(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDetector(notifier)
	ctx := context.Background()

	d.Evaluate(ctx, "42", adultDogSample(104.0, 90, models.MotionStable), "dog", 4)
	d.Evaluate(ctx, "42", adultDogSample(101.0, 90, models.MotionStable), "dog", 4)
	d.Evaluate(ctx, "42", adultDogSample(104.0, 90, models.MotionStable), "dog", 4)

	// Abnormal, normal, abnormal: exactly two alerts.
	assert.Equal(t, 2, notifier.count("High Temperature Alert"))
}

func TestDetectorClearsFlagsOnNormal(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDetector(notifier)
	ctx := context.Background()

	d.Evaluate(ctx, "42", adultDogSample(95.0, 40, models.MotionStable), "dog", 4)
	flags := d.Flags("42")
	assert.True(t, flags.LowTemp)
	assert.True(t, flags.LowHeartRate)

	d.Evaluate(ctx, "42", adultDogSample(101.0, 90, models.MotionStable), "dog", 4)
	flags = d.Flags("42")
	assert.False(t, flags.LowTemp)
	assert.False(t, flags.LowHeartRate)
	// Recovery itself emits nothing.
	assert.Equal(t, 1, notifier.count("Low Temperature Alert"))
	assert.Equal(t, 1, notifier.count("Low Heart Rate Alert"))
}

func TestInjuryAlertRequiresCrashAndHighHeartRate(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDetector(notifier)
	ctx := context.Background()

	// Crash with normal heart rate: no injury alert.
	d.Evaluate(ctx, "42", adultDogSample(101.0, 90, models.MotionCrash), "dog", 4)
	assert.Equal(t, 0, notifier.count("Injury Alert"))

	// High heart rate without crash: still no injury alert.
	d.Evaluate(ctx, "42", adultDogSample(101.0, 150, models.MotionStable), "dog", 4)
	assert.Equal(t, 0, notifier.count("Injury Alert"))

	// Both together: one injury alert, latched.
	d.Evaluate(ctx, "42", adultDogSample(101.0, 150, models.MotionCrash), "dog", 4)
	d.Evaluate(ctx, "42", adultDogSample(101.0, 150, models.MotionCrash), "dog", 4)
	assert.Equal(t, 1, notifier.count("Injury Alert"))

	// Motion back to normal clears the latch; a second crash re-fires.
	d.Evaluate(ctx, "42", adultDogSample(101.0, 150, models.MotionStable), "dog", 4)
	require.False(t, d.Flags("42").Injury)
	d.Evaluate(ctx, "42", adultDogSample(101.0, 150, models.MotionCrash), "dog", 4)
	assert.Equal(t, 2, notifier.count("Injury Alert"))
}

func TestDetectorStateIsPerPet(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDetector(notifier)
	ctx := context.Background()

	d.Evaluate(ctx, "42", adultDogSample(104.0, 90, models.MotionStable), "dog", 4)
	d.Evaluate(ctx, "77", adultDogSample(104.0, 90, models.MotionStable), "dog", 4)

	// Each pet gets its own episode.
	assert.Equal(t, 2, notifier.count("High Temperature Alert"))
	assert.True(t, d.Flags("42").HighTemp)
	assert.True(t, d.Flags("77").HighTemp)
}
