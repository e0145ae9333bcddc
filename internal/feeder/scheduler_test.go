package feeder

import (
	"context"
	"testing"
	"time"

	"github.com/petprotect/hub/internal/liveness"
	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/repository/memory"
	"github.com/petprotect/hub/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheduler(t *testing.T, at time.Time) (*Scheduler, *telemetry.FakeChannel, *liveness.Tracker, *memory.ScheduleRepo) {
	t.Helper()
	channel := telemetry.NewFakeChannel()
	tracker := liveness.NewTracker(15 * time.Second)
	schedules := memory.NewScheduleRepository()

	s := NewScheduler(channel, tracker, schedules, Config{
		SettleWindow:      20 * time.Millisecond,
		DispenseThreshold: 5,
	})
	s.now = func() time.Time { return at }
	s.armedDay = at
	return s, channel, tracker, schedules
}

func countCommand(published []string, command string) int {
	n := 0
	for _, c := range published {
		if c == command {
			n++
		}
	}
	return n
}

func eventAt(events []models.FeedEvent, at string) *models.FeedEvent {
	for i := range events {
		if events[i].Time == at {
			return &events[i]
		}
	}
	return nil
}

func TestArmPublishesDeviceSchedule(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.Local)
	s, channel, _, _ := testScheduler(t, now)

	err := s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM")
	require.NoError(t, err)

	assert.Equal(t, []string{"set 07:00", "set 13:00", "set 21:00"}, channel.Published())

	events := s.Events("42")
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, models.FeedUpcoming, ev.Status)
		assert.False(t, ev.Triggered)
	}
}

func TestArmRejectsMalformedTime(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.Local)
	s, channel, _, _ := testScheduler(t, now)

	err := s.Arm(context.Background(), "42", "7:00 AM", "sometime", "9:00 PM")
	require.Error(t, err)
	assert.Empty(t, channel.Published(), "nothing published on a bad schedule")
	assert.Empty(t, s.Events("42"))
}

func TestConfirmationCompleted(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)
	s, channel, tracker, _ := testScheduler(t, now)

	tracker.OnWeight(100)
	// The device reacts to "on" by dispensing: the hopper drops 6 units.
	channel.SetPublishHook(func(command string) {
		if command == "on" {
			tracker.OnWeight(94)
		}
	})

	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))
	s.tick(context.Background())

	require.Eventually(t, func() bool {
		ev := eventAt(s.Events("42"), "07:00")
		return ev != nil && ev.Triggered
	}, time.Second, 5*time.Millisecond)

	events := s.Events("42")
	morning := eventAt(events, "07:00")
	require.NotNil(t, morning)
	assert.Equal(t, models.FeedCompleted, morning.Status)

	// Exactly one actuate command; the other slots stay untouched.
	assert.Equal(t, 1, countCommand(channel.Published(), "on"))
	assert.Equal(t, models.FeedUpcoming, eventAt(events, "13:00").Status)
	assert.Equal(t, models.FeedUpcoming, eventAt(events, "21:00").Status)
}

func TestConfirmationFailedOnSmallDelta(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)
	s, channel, tracker, _ := testScheduler(t, now)

	tracker.OnWeight(100)
	channel.SetPublishHook(func(command string) {
		if command == "on" {
			tracker.OnWeight(99)
		}
	})

	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))
	s.tick(context.Background())

	require.Eventually(t, func() bool {
		ev := eventAt(s.Events("42"), "07:00")
		return ev != nil && ev.Triggered
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, models.FeedFailed, eventAt(s.Events("42"), "07:00").Status)
}

func TestConfirmationFailedWithoutBaselineWeight(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)
	s, channel, tracker, _ := testScheduler(t, now)

	// No weight has ever been received; a reading arriving only after the
	// actuate command is still inconclusive.
	channel.SetPublishHook(func(command string) {
		if command == "on" {
			tracker.OnWeight(94)
		}
	})

	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))
	s.tick(context.Background())

	require.Eventually(t, func() bool {
		ev := eventAt(s.Events("42"), "07:00")
		return ev != nil && ev.Triggered
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, models.FeedFailed, eventAt(s.Events("42"), "07:00").Status)
}

func TestTriggeredEventIsNeverRefired(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)
	s, channel, tracker, _ := testScheduler(t, now)

	tracker.OnWeight(100)
	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))

	s.tick(context.Background())
	require.Eventually(t, func() bool {
		ev := eventAt(s.Events("42"), "07:00")
		return ev != nil && ev.Triggered
	}, time.Second, 5*time.Millisecond)

	s.tick(context.Background())
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, countCommand(channel.Published(), "on"))
}

func TestIdenticalMinuteEventsEachFire(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local)
	s, channel, tracker, _ := testScheduler(t, now)

	tracker.OnWeight(100)
	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))
	require.NoError(t, s.Arm(context.Background(), "43", "7:00 AM", "2:00 PM", "10:00 PM"))

	s.tick(context.Background())

	require.Eventually(t, func() bool {
		a := eventAt(s.Events("42"), "07:00")
		b := eventAt(s.Events("43"), "07:00")
		return a != nil && a.Triggered && b != nil && b.Triggered
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, countCommand(channel.Published(), "on"))
}

func TestDayRolloverRearmsFromStore(t *testing.T) {
	now := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	s, _, tracker, schedules := testScheduler(t, now)

	tracker.OnWeight(100)
	require.NoError(t, schedules.Upsert(context.Background(), &models.FeedingSchedule{
		PetID:   "42",
		Morning: "07:00", Afternoon: "13:00", Night: "21:00",
	}))
	require.NoError(t, s.Arm(context.Background(), "42", "07:00", "13:00", "21:00"))

	// Exhaust the night event.
	s.mu.Lock()
	for _, ev := range s.events["42"] {
		ev.Status = models.FeedCompleted
		ev.Triggered = true
	}
	s.mu.Unlock()

	// Next tick lands on the following day; the event set must come back
	// fresh from the stored schedule.
	next := now.Add(2 * time.Minute)
	s.now = func() time.Time { return next }
	s.tick(context.Background())

	events := s.Events("42")
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, models.FeedUpcoming, ev.Status)
		assert.False(t, ev.Triggered)
	}
}

func TestArmReplacesEventSet(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.Local)
	s, _, _, _ := testScheduler(t, now)

	require.NoError(t, s.Arm(context.Background(), "42", "7:00 AM", "1:00 PM", "9:00 PM"))
	require.NoError(t, s.Arm(context.Background(), "42", "8:00 AM", "2:00 PM", "10:00 PM"))

	events := s.Events("42")
	require.Len(t, events, 3)
	assert.Nil(t, eventAt(events, "07:00"))
	assert.NotNil(t, eventAt(events, "08:00"))
}
