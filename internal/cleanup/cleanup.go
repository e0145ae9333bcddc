package cleanup

import (
	"context"
	"fmt"

	"github.com/petprotect/hub/internal/feeder"
	"github.com/petprotect/hub/internal/repository"
	"github.com/petprotect/hub/internal/vitals"
	nuts "github.com/vaudience/go-nuts"
)

// CleanupService removes everything the hub holds about a pet when the pet
// record is deleted upstream: schedule, device links, vitals rows,
// notifications, plus the in-memory feed events and alert flags.
type CleanupService struct {
	schedules     repository.ScheduleRepository
	links         repository.DeviceLinkRepository
	vitals        repository.VitalsRepository
	notifications repository.NotificationRepository
	scheduler     *feeder.Scheduler
	detector      *vitals.Detector
	events        *nuts.EventEmitter
}

func New(
	schedules repository.ScheduleRepository,
	links repository.DeviceLinkRepository,
	vitalsRepo repository.VitalsRepository,
	notifications repository.NotificationRepository,
	scheduler *feeder.Scheduler,
	detector *vitals.Detector,
) *CleanupService {
	return &CleanupService{
		schedules:     schedules,
		links:         links,
		vitals:        vitalsRepo,
		notifications: notifications,
		scheduler:     scheduler,
		detector:      detector,
		events:        nuts.NewEventEmitter(),
	}
}

// DeletePetData deletes all hub-side data for a pet. Row deletions run in
// order; a failure stops the cascade so a retry can resume it.
func (s *CleanupService) DeletePetData(ctx context.Context, petID string) error {
	if err := s.schedules.DeleteByPet(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete feeding schedule: %w", err)
	}
	s.events.Emit("schedule.deleted", petID)

	if err := s.links.DeleteByPet(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete device links: %w", err)
	}
	s.events.Emit("links.deleted", petID)

	if err := s.vitals.DeleteByPet(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete vitals history: %w", err)
	}

	if err := s.notifications.DeleteByPet(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}

	if s.scheduler != nil {
		s.scheduler.Disarm(petID)
	}
	if s.detector != nil {
		s.detector.Reset(petID)
	}

	s.events.Emit("pet.deleted", petID)
	nuts.L.Infof("[Cleanup] Pet %s and all associated data deleted", petID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, "cleanup_handler", func(id string) {
		handler(id)
	})
}
