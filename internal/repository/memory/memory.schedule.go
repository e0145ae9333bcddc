package memory

import (
	"context"
	"sync"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type ScheduleRepo struct {
	baseRepo
	mu        sync.RWMutex
	schedules map[string]models.FeedingSchedule
}

func NewScheduleRepository() *ScheduleRepo {
	return &ScheduleRepo{schedules: make(map[string]models.FeedingSchedule)}
}

func (r *ScheduleRepo) Upsert(ctx context.Context, schedule *models.FeedingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[schedule.PetID] = *schedule
	return nil
}

func (r *ScheduleRepo) Get(ctx context.Context, petID string) (*models.FeedingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schedule, ok := r.schedules[petID]
	if !ok {
		return nil, errors.NewNotFoundError("feeding schedule not found", nil)
	}
	out := schedule
	return &out, nil
}

func (r *ScheduleRepo) List(ctx context.Context) ([]*models.FeedingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.FeedingSchedule, 0, len(r.schedules))
	for _, schedule := range r.schedules {
		s := schedule
		out = append(out, &s)
	}
	return out, nil
}

func (r *ScheduleRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schedules, petID)
	return nil
}
