package hubservice

import (
	"context"
	"time"

	"github.com/petprotect/hub/internal/cleanup"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/feeder"
	"github.com/petprotect/hub/internal/liveness"
	"github.com/petprotect/hub/internal/repository"
	"github.com/petprotect/hub/internal/telemetry"
	"github.com/petprotect/hub/internal/vitals"
)

// TokenRegistry stores owner push tokens.
type TokenRegistry interface {
	Save(ctx context.Context, owner, token string) error
}

// Deps carries everything the hub service needs.
type Deps struct {
	Schedules     repository.ScheduleRepository
	Links         repository.DeviceLinkRepository
	Vitals        repository.VitalsRepository
	Notifications repository.NotificationRepository
	Pets          repository.PetRepository

	Channel   telemetry.Channel
	Tracker   *liveness.Tracker
	Scheduler *feeder.Scheduler
	Detector  *vitals.Detector
	Tokens    TokenRegistry

	VitalsStaleness time.Duration
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Deps
	Cleanup *cleanup.CleanupService
	now     func() time.Time
}

// New creates a new HubService instance
func New(deps Deps) *HubService {
	svc := &HubService{Deps: deps, now: time.Now}
	svc.Cleanup = cleanup.New(
		deps.Schedules, deps.Links, deps.Vitals, deps.Notifications,
		deps.Scheduler, deps.Detector,
	)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Schedules == nil {
		return ErrMissingDependency("schedules")
	}
	if s.Links == nil {
		return ErrMissingDependency("links")
	}
	if s.Vitals == nil {
		return ErrMissingDependency("vitals")
	}
	if s.Notifications == nil {
		return ErrMissingDependency("notifications")
	}
	if s.Pets == nil {
		return ErrMissingDependency("pets")
	}
	if s.Channel == nil {
		return ErrMissingDependency("channel")
	}
	if s.Tracker == nil {
		return ErrMissingDependency("tracker")
	}
	if s.Scheduler == nil {
		return ErrMissingDependency("scheduler")
	}
	if s.Detector == nil {
		return ErrMissingDependency("detector")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

// DeletePetData removes everything the hub holds about a pet: schedule,
// device links, vitals history, notifications, armed feed events and alert
// latches. Called when the pet record is deleted upstream.
func (s *HubService) DeletePetData(ctx context.Context, petID string) error {
	if petID == "" {
		return errors.NewValidationError("pet id is required", nil)
	}
	return s.Cleanup.DeletePetData(ctx, petID)
}
