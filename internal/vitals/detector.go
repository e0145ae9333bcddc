package vitals

import (
	"context"
	"sync"

	"github.com/petprotect/hub/internal/models"
)

// AlertFlags is one latch per alert condition. A flag is set exactly once on
// the normal-to-abnormal transition and cleared exactly once on the way
// back, so a sustained episode produces a single notification no matter how
// often it is sampled.
type AlertFlags struct {
	LowTemp       bool `json:"low_temp"`
	HighTemp      bool `json:"high_temp"`
	LowHeartRate  bool `json:"low_heart_rate"`
	HighHeartRate bool `json:"high_heart_rate"`
	Injury        bool `json:"injury"`
}

// Notifier delivers an alert. Delivery failures are the notifier's problem;
// the detector's latch state advances regardless.
type Notifier interface {
	Dispatch(ctx context.Context, petID, title, body string)
}

// Detector is the per-pet edge/hysteresis filter over vitals samples.
type Detector struct {
	mu       sync.Mutex
	flags    map[string]*AlertFlags
	notifier Notifier
}

func NewDetector(notifier Notifier) *Detector {
	return &Detector{
		flags:    make(map[string]*AlertFlags),
		notifier: notifier,
	}
}

// Flags returns a snapshot of a pet's latch state.
func (d *Detector) Flags(petID string) AlertFlags {
	d.mu.Lock()
	defer d.mu.Unlock()
	if flags, ok := d.flags[petID]; ok {
		return *flags
	}
	return AlertFlags{}
}

// Reset drops a pet's latch state entirely.
func (d *Detector) Reset(petID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.flags, petID)
}

type pendingAlert struct {
	title string
	body  string
}

// Evaluate classifies one sample and fires at most one alert per condition
// per abnormal episode. Clears run before sets so an abnormal reading
// arriving right after recovery re-arms correctly. The injury alert is
// compound: a crash-class motion event together with a High heart rate.
func (d *Detector) Evaluate(ctx context.Context, petID string, sample *models.VitalsSample, species string, ageYears float64) {
	vitalsRange := RangeFor(species, ageYears)
	tempStatus := StatusOf(sample.TemperatureF, vitalsRange.Temperature)
	heartRateStatus := StatusOf(sample.HeartRate, vitalsRange.HeartRate)

	d.mu.Lock()
	flags, ok := d.flags[petID]
	if !ok {
		flags = &AlertFlags{}
		d.flags[petID] = flags
	}

	if tempStatus == models.StatusNormal {
		flags.LowTemp = false
		flags.HighTemp = false
	}
	if heartRateStatus == models.StatusNormal {
		flags.LowHeartRate = false
		flags.HighHeartRate = false
	}
	if sample.MotionState != models.MotionCrash {
		flags.Injury = false
	}

	var alerts []pendingAlert

	if tempStatus == models.StatusLow && !flags.LowTemp {
		flags.LowTemp = true
		alerts = append(alerts, pendingAlert{
			title: "Low Temperature Alert",
			body:  "Your pet's temperature is dangerously low.",
		})
	}
	if tempStatus == models.StatusHigh && !flags.HighTemp {
		flags.HighTemp = true
		alerts = append(alerts, pendingAlert{
			title: "High Temperature Alert",
			body:  "Your pet's temperature is too high.",
		})
	}
	if heartRateStatus == models.StatusLow && !flags.LowHeartRate {
		flags.LowHeartRate = true
		alerts = append(alerts, pendingAlert{
			title: "Low Heart Rate Alert",
			body:  "Your pet's heart rate is dangerously low.",
		})
	}
	if heartRateStatus == models.StatusHigh && !flags.HighHeartRate {
		flags.HighHeartRate = true
		alerts = append(alerts, pendingAlert{
			title: "High Heart Rate Alert",
			body:  "Your pet's heart rate is too high.",
		})
	}
	if sample.MotionState == models.MotionCrash && heartRateStatus == models.StatusHigh && !flags.Injury {
		flags.Injury = true
		alerts = append(alerts, pendingAlert{
			title: "Injury Alert",
			body:  "Potential injury detected with high heart rate.",
		})
	}
	d.mu.Unlock()

	// Dispatch outside the lock; the notifier may do network I/O.
	for _, alert := range alerts {
		d.notifier.Dispatch(ctx, petID, alert.title, alert.body)
	}
}
