package hubservice

import (
	"context"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/vitals"
	nuts "github.com/vaudience/go-nuts"
)

// VitalsStatus is the composite view the app renders: the latest sample,
// the normal bands for this pet, per-vital classification and the current
// alert latches.
type VitalsStatus struct {
	Sample            *models.VitalsSample `json:"sample"`
	Range             models.VitalsRange   `json:"range"`
	TemperatureStatus models.VitalStatus   `json:"temperature_status"`
	HeartRateStatus   models.VitalStatus   `json:"heart_rate_status"`
	Flags             vitals.AlertFlags    `json:"flags"`
}

const defaultHistoryLimit = 60

// IngestVitals stores one collar snapshot. Missing temperature units are
// derived from the other; the motion state defaults to stable.
func (s *HubService) IngestVitals(ctx context.Context, sample *models.VitalsSample) error {
	if sample.PetID == "" {
		return errors.NewValidationError("pet id is required", nil)
	}
	switch sample.MotionState {
	case "":
		sample.MotionState = models.MotionStable
	case models.MotionStable, models.MotionMoving, models.MotionCrash:
	default:
		return errors.NewValidationError("unknown motion state", nil)
	}

	if sample.TemperatureF == 0 && sample.TemperatureC != 0 {
		sample.TemperatureF = sample.TemperatureC*9/5 + 32
	}
	if sample.TemperatureC == 0 && sample.TemperatureF != 0 {
		sample.TemperatureC = (sample.TemperatureF - 32) * 5 / 9
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = s.now()
	}

	return s.Vitals.Insert(ctx, sample)
}

// LatestVitals returns the composite vitals view for a collar-linked pet.
// Conflict when no collar is linked; NotFound when there is no sample or
// the newest one is stale.
func (s *HubService) LatestVitals(ctx context.Context, petID string) (*VitalsStatus, error) {
	if _, err := s.Links.GetForPet(ctx, petID, models.DeviceCollar); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewConflictError("no collar linked to this pet", nil)
		}
		return nil, err
	}

	sample, err := s.Vitals.Latest(ctx, petID)
	if err != nil {
		return nil, err
	}
	if vitals.IsStale(sample, s.now(), s.VitalsStaleness) {
		nuts.L.Debugf("[VitalsService] Latest sample for pet %s is stale", petID)
		return nil, errors.NewStaleDataError("collar data is stale", nil)
	}

	pet, err := s.Pets.Get(ctx, petID)
	if err != nil {
		return nil, err
	}

	vitalsRange := vitals.RangeFor(pet.Species, pet.AgeYears)
	return &VitalsStatus{
		Sample:            sample,
		Range:             vitalsRange,
		TemperatureStatus: vitals.StatusOf(sample.TemperatureF, vitalsRange.Temperature),
		HeartRateStatus:   vitals.StatusOf(sample.HeartRate, vitalsRange.HeartRate),
		Flags:             s.Detector.Flags(petID),
	}, nil
}

// VitalsHistory returns up to limit samples in chronological order.
func (s *HubService) VitalsHistory(ctx context.Context, petID string, limit int) ([]*models.VitalsSample, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > 1440 {
		limit = 1440
	}
	return s.Vitals.History(ctx, petID, limit)
}

// ActivitySummary returns today's calm/active minute counts and hit count.
func (s *HubService) ActivitySummary(ctx context.Context, petID string) (*models.ActivitySummary, error) {
	return s.Vitals.SummaryForDay(ctx, petID, s.now())
}
