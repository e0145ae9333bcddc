package hubservice

import (
	"context"
	"strings"
	"time"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/feeder"
	"github.com/petprotect/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// WeightReading is the current bowl weight as seen by the hub.
type WeightReading struct {
	Weight     float64   `json:"weight"`
	ReceivedAt time.Time `json:"received_at"`
	Live       bool      `json:"live"`
}

// SaveSchedule normalizes, persists and arms a pet's feeding schedule.
// Malformed times reject the whole save; nothing is stored or armed.
func (s *HubService) SaveSchedule(ctx context.Context, schedule *models.FeedingSchedule) error {
	if schedule.PetID == "" {
		return errors.NewValidationError("pet id is required", nil)
	}

	var err error
	if schedule.Morning, err = feeder.Normalize(schedule.Morning); err != nil {
		return err
	}
	if schedule.Afternoon, err = feeder.Normalize(schedule.Afternoon); err != nil {
		return err
	}
	if schedule.Night, err = feeder.Normalize(schedule.Night); err != nil {
		return err
	}

	now := s.now()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	if err := s.Schedules.Upsert(ctx, schedule); err != nil {
		return err
	}

	nuts.L.Infof("[FeedingService] Schedule saved for pet %s: %s / %s / %s",
		schedule.PetID, schedule.Morning, schedule.Afternoon, schedule.Night)
	return s.Scheduler.Arm(ctx, schedule.PetID, schedule.Morning, schedule.Afternoon, schedule.Night)
}

// GetSchedule returns the stored schedule, or an empty one when the pet has
// never been configured. Absence is a normal state, not an error.
func (s *HubService) GetSchedule(ctx context.Context, petID string) (*models.FeedingSchedule, error) {
	schedule, err := s.Schedules.Get(ctx, petID)
	if errors.IsNotFound(err) {
		return &models.FeedingSchedule{PetID: petID}, nil
	}
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// FeedStatus returns the current day's feed events for a pet.
func (s *HubService) FeedStatus(petID string) []models.FeedEvent {
	return s.Scheduler.Events(petID)
}

// DispenseNow actuates the feeder immediately, outside any schedule.
func (s *HubService) DispenseNow(ctx context.Context) error {
	nuts.L.Infof("[FeedingService] Manual dispense requested")
	return s.Channel.Publish(ctx, "on")
}

// SendFeederCommand forwards a validated raw command to the feeder.
// Accepted: "on", "off", "set HH:MM" (12- or 24-hour time).
func (s *HubService) SendFeederCommand(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	switch {
	case command == "on" || command == "off":
	case strings.HasPrefix(command, "set "):
		normalized, err := feeder.Normalize(strings.TrimPrefix(command, "set "))
		if err != nil {
			return err
		}
		command = "set " + normalized
	default:
		return errors.NewValidationError("unsupported feeder command", nil)
	}
	return s.Channel.Publish(ctx, command)
}

// CurrentWeight returns the most recent bowl weight. NotFound until the
// first reading arrives; Live reports whether the feed is fresh.
func (s *HubService) CurrentWeight() (*WeightReading, error) {
	weight, ok := s.Tracker.Latest()
	if !ok {
		return nil, errors.NewNotFoundError("no weight reading received yet", nil)
	}
	return &WeightReading{
		Weight:     weight,
		ReceivedAt: s.Tracker.ReceivedAt(),
		Live:       s.Tracker.Live(),
	}, nil
}
