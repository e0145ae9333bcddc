package memory

import (
	"context"
	"sync"
	"time"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type VitalsRepo struct {
	baseRepo
	mu      sync.RWMutex
	samples map[string][]models.VitalsSample
	nextID  int64
}

func NewVitalsRepository() *VitalsRepo {
	return &VitalsRepo{samples: make(map[string][]models.VitalsSample)}
}

func (r *VitalsRepo) Insert(ctx context.Context, sample *models.VitalsSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sample.ID = r.nextID
	r.samples[sample.PetID] = append(r.samples[sample.PetID], *sample)
	return nil
}

func (r *VitalsRepo) Latest(ctx context.Context, petID string) (*models.VitalsSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	series := r.samples[petID]
	if len(series) == 0 {
		return nil, errors.NewNotFoundError("no vitals data available", nil)
	}
	out := series[len(series)-1]
	return &out, nil
}

func (r *VitalsRepo) History(ctx context.Context, petID string, limit int) ([]*models.VitalsSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	series := r.samples[petID]
	start := 0
	if len(series) > limit {
		start = len(series) - limit
	}
	out := make([]*models.VitalsSample, 0, len(series)-start)
	for i := start; i < len(series); i++ {
		s := series[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *VitalsRepo) SummaryForDay(ctx context.Context, petID string, day time.Time) (*models.ActivitySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := &models.ActivitySummary{}
	y, m, d := day.Date()
	for _, sample := range r.samples[petID] {
		sy, sm, sd := sample.Timestamp.Date()
		if sy != y || sm != m || sd != d {
			continue
		}
		switch sample.MotionState {
		case models.MotionStable:
			summary.CalmMinutes++
		case models.MotionMoving:
			summary.ActiveMinutes++
		case models.MotionCrash:
			summary.HitCount++
		}
	}
	return summary, nil
}

func (r *VitalsRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.samples, petID)
	return nil
}
