// Package feeder turns a stored daily feeding schedule into physically
// confirmed dispense events. The feeder device offers no acknowledgement
// protocol, so success is inferred from its one observable side effect: the
// hopper losing mass after an actuate command.
package feeder

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/petprotect/hub/internal/liveness"
	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/repository"
	"github.com/petprotect/hub/internal/telemetry"
	nuts "github.com/vaudience/go-nuts"
)

// Config carries the confirmation tunables.
type Config struct {
	// SettleWindow is how long to wait after actuation before reading the
	// post-dispense weight.
	SettleWindow time.Duration
	// DispenseThreshold is the minimum weight delta that counts as a
	// successful dispense, in scale units.
	DispenseThreshold float64
}

// Scheduler owns the per-pet feed event sets and drives the once-per-minute
// scan that fires and confirms dispenses.
type Scheduler struct {
	mu       sync.Mutex
	events   map[string][]*models.FeedEvent
	armedDay time.Time

	channel   telemetry.Channel
	tracker   *liveness.Tracker
	schedules repository.ScheduleRepository
	cfg       Config
	now       func() time.Time
}

func NewScheduler(channel telemetry.Channel, tracker *liveness.Tracker, schedules repository.ScheduleRepository, cfg Config) *Scheduler {
	return &Scheduler{
		events:    make(map[string][]*models.FeedEvent),
		channel:   channel,
		tracker:   tracker,
		schedules: schedules,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Arm normalizes the three feeding times, replaces the pet's event set for
// the current cycle, and pushes the schedule down to the device as
// "set HH:MM" commands. Invalid times fail with a format error before any
// state changes. A publish failure does not undo the arm; the device simply
// keeps its previous on-board schedule until the link recovers.
func (s *Scheduler) Arm(ctx context.Context, petID, morning, afternoon, night string) error {
	times := make([]string, 0, 3)
	for _, raw := range []string{morning, afternoon, night} {
		canonical, err := Normalize(raw)
		if err != nil {
			return err
		}
		times = append(times, canonical)
	}

	events := make([]*models.FeedEvent, 0, len(times))
	for _, t := range times {
		events = append(events, &models.FeedEvent{
			PetID:  petID,
			Time:   t,
			Status: models.FeedUpcoming,
		})
	}

	s.mu.Lock()
	s.events[petID] = events
	s.mu.Unlock()

	for _, t := range times {
		if err := s.channel.Publish(ctx, "set "+t); err != nil {
			nuts.L.Warnf("[Feeder] Failed to push schedule time %s to device: %v", t, err)
		}
	}

	nuts.L.Infof("[Feeder] Armed schedule for pet %s: %v", petID, times)
	return nil
}

// Disarm drops a pet's event set, e.g. when the pet is deleted.
func (s *Scheduler) Disarm(petID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, petID)
}

// Events returns a snapshot of the pet's current-cycle feed events.
func (s *Scheduler) Events(petID string) []models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FeedEvent, 0, len(s.events[petID]))
	for _, ev := range s.events[petID] {
		out = append(out, *ev)
	}
	return out
}

// Run drives the minute scan until the context is cancelled. It re-arms all
// event sets from the schedule store at startup and again at every calendar
// day rollover, which is what resets Triggered for the new day's cycle.
func (s *Scheduler) Run(ctx context.Context) {
	s.rearmFromStore(ctx)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	nuts.L.Infof("[Feeder] Scheduler running, settle window %s, threshold %.1f",
		s.cfg.SettleWindow, s.cfg.DispenseThreshold)

	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Feeder] Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick compares the wall-clock minute against every unconfirmed event.
// Each due event confirms on its own goroutine so a settle wait never
// blocks the scan; multiple events on the identical minute each fire.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	if !sameDay(now, s.armedDayLocked()) {
		s.rearmFromStore(ctx)
	}

	current := now.Format("15:04")

	s.mu.Lock()
	due := make([]*models.FeedEvent, 0, 1)
	for _, events := range s.events {
		for _, ev := range events {
			if ev.Time == current && !ev.Triggered {
				due = append(due, ev)
			}
		}
	}
	s.mu.Unlock()

	for _, ev := range due {
		go s.confirm(ctx, ev)
	}
}

// confirm runs the dispense-and-verify sequence for one due event. The
// weight delta across the settle window is the only confirmation signal; a
// missing sample on either side is inconclusive and settles Failed. The
// outcome is terminal for this cycle, with no retry.
func (s *Scheduler) confirm(ctx context.Context, ev *models.FeedEvent) {
	before, beforeOK := s.tracker.Latest()

	if err := s.channel.Publish(ctx, "on"); err != nil {
		nuts.L.Warnf("[Feeder] Actuate command for pet %s at %s failed: %v", ev.PetID, ev.Time, err)
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(s.cfg.SettleWindow):
	}

	after, afterOK := s.tracker.Latest()

	s.mu.Lock()
	if beforeOK && afterOK && math.Abs(after-before) > s.cfg.DispenseThreshold {
		ev.Status = models.FeedCompleted
	} else {
		ev.Status = models.FeedFailed
	}
	ev.Triggered = true
	status := ev.Status
	s.mu.Unlock()

	nuts.L.Infof("[Feeder] Feed at %s for pet %s settled %s (before=%.1f after=%.1f)",
		ev.Time, ev.PetID, status, before, after)
}

// rearmFromStore rebuilds every pet's event set from the stored schedules.
// The on-device schedule is not re-published here; "set" commands only go
// out when an owner saves.
func (s *Scheduler) rearmFromStore(ctx context.Context) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		nuts.L.Errorf("[Feeder] Failed to load schedules for re-arm: %v", err)
		return
	}

	events := make(map[string][]*models.FeedEvent, len(schedules))
	for _, schedule := range schedules {
		if !schedule.IsSet() {
			continue
		}
		for _, t := range []string{schedule.Morning, schedule.Afternoon, schedule.Night} {
			events[schedule.PetID] = append(events[schedule.PetID], &models.FeedEvent{
				PetID:  schedule.PetID,
				Time:   t,
				Status: models.FeedUpcoming,
			})
		}
	}

	s.mu.Lock()
	s.events = events
	s.armedDay = s.now()
	s.mu.Unlock()

	nuts.L.Infof("[Feeder] Re-armed feed events for %d pets", len(events))
}

func (s *Scheduler) armedDayLocked() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedDay
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
