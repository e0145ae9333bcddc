package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/feeder"
	"github.com/petprotect/hub/internal/liveness"
	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/repository/memory"
	"github.com/petprotect/hub/internal/telemetry"
	"github.com/petprotect/hub/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentNotifier struct{}

func (silentNotifier) Dispatch(context.Context, string, string, string) {}

func TestDeletePetDataCascades(t *testing.T) {
	ctx := context.Background()

	schedules := memory.NewScheduleRepository()
	links := memory.NewDeviceLinkRepository()
	vitalsRepo := memory.NewVitalsRepository()
	notifications := memory.NewNotificationRepository()

	channel := telemetry.NewFakeChannel()
	tracker := liveness.NewTracker(15 * time.Second)
	scheduler := feeder.NewScheduler(channel, tracker, schedules, feeder.Config{
		SettleWindow:      10 * time.Millisecond,
		DispenseThreshold: 5,
	})
	detector := vitals.NewDetector(silentNotifier{})

	require.NoError(t, schedules.Upsert(ctx, &models.FeedingSchedule{
		PetID: "42", Morning: "07:00", Afternoon: "13:00", Night: "21:00",
	}))
	require.NoError(t, links.Upsert(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))
	require.NoError(t, links.Upsert(ctx, &models.DeviceLink{
		DeviceID: "feeder-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceDispenser,
	}))
	require.NoError(t, vitalsRepo.Insert(ctx, &models.VitalsSample{
		PetID: "42", TemperatureF: 101.5, HeartRate: 90,
		MotionState: models.MotionStable, Timestamp: time.Now(),
	}))
	require.NoError(t, notifications.Create(ctx, &models.Notification{
		ID: "ntf_1", PetID: "42", Title: "High Heart Rate Alert", CreatedAt: time.Now(),
	}))

	require.NoError(t, scheduler.Arm(ctx, "42", "07:00", "13:00", "21:00"))
	detector.Evaluate(ctx, "42", &models.VitalsSample{
		PetID: "42", TemperatureF: 101.5, HeartRate: 180,
		MotionState: models.MotionStable, Timestamp: time.Now(),
	}, "dog", 4)
	require.True(t, detector.Flags("42").HighHeartRate, "precondition: a latch is set")

	svc := New(schedules, links, vitalsRepo, notifications, scheduler, detector)

	var deleted []string
	svc.OnCleanup("pet.deleted", func(id string) { deleted = append(deleted, id) })

	require.NoError(t, svc.DeletePetData(ctx, "42"))

	_, err := schedules.Get(ctx, "42")
	assert.True(t, errors.IsNotFound(err), "schedule must be gone")

	collars, err := links.ListByKind(ctx, models.DeviceCollar)
	require.NoError(t, err)
	assert.Empty(t, collars)
	dispensers, err := links.ListByKind(ctx, models.DeviceDispenser)
	require.NoError(t, err)
	assert.Empty(t, dispensers)

	_, err = vitalsRepo.Latest(ctx, "42")
	assert.True(t, errors.IsNotFound(err), "vitals history must be gone")

	records, err := notifications.ListByPet(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Empty(t, scheduler.Events("42"), "armed feed events must be dropped")
	assert.Equal(t, vitals.AlertFlags{}, detector.Flags("42"), "alert latches must be reset")

	require.Eventually(t, func() bool { return len(deleted) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "42", deleted[0])
}

func TestDeletePetDataLeavesOtherPetsAlone(t *testing.T) {
	ctx := context.Background()

	schedules := memory.NewScheduleRepository()
	links := memory.NewDeviceLinkRepository()
	vitalsRepo := memory.NewVitalsRepository()
	notifications := memory.NewNotificationRepository()

	channel := telemetry.NewFakeChannel()
	tracker := liveness.NewTracker(15 * time.Second)
	scheduler := feeder.NewScheduler(channel, tracker, schedules, feeder.Config{
		SettleWindow:      10 * time.Millisecond,
		DispenseThreshold: 5,
	})
	detector := vitals.NewDetector(silentNotifier{})

	require.NoError(t, schedules.Upsert(ctx, &models.FeedingSchedule{
		PetID: "42", Morning: "07:00", Afternoon: "13:00", Night: "21:00",
	}))
	require.NoError(t, schedules.Upsert(ctx, &models.FeedingSchedule{
		PetID: "99", Morning: "08:00", Afternoon: "14:00", Night: "22:00",
	}))
	require.NoError(t, scheduler.Arm(ctx, "99", "08:00", "14:00", "22:00"))

	svc := New(schedules, links, vitalsRepo, notifications, scheduler, detector)
	require.NoError(t, svc.DeletePetData(ctx, "42"))

	kept, err := schedules.Get(ctx, "99")
	require.NoError(t, err)
	assert.Equal(t, "08:00", kept.Morning)
	assert.Len(t, scheduler.Events("99"), 3)
}
