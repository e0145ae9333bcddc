package hubservice

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

type nopNotifier struct{}

func (nopNotifier) Dispatch(context.Context, string, string, string) {}

type nopTokens struct{ saved map[string]string }

func (t *nopTokens) Save(_ context.Context, owner, token string) error {
	if t.saved == nil {
		t.saved = map[string]string{}
	}
	t.saved[owner] = token
	return nil
}

type fixture struct {
	svc     *HubService
	channel *telemetry.FakeChannel
	tracker *liveness.Tracker
	pets    *memory.PetRepo
	vitals  *memory.VitalsRepo
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	channel := telemetry.NewFakeChannel()
	tracker := liveness.NewTracker(15 * time.Second)
	schedules := memory.NewScheduleRepository()
	scheduler := feeder.NewScheduler(channel, tracker, schedules, feeder.Config{
		SettleWindow:      10 * time.Millisecond,
		DispenseThreshold: 5,
	})
	pets := memory.NewPetRepository()
	vitalsRepo := memory.NewVitalsRepository()

	svc := New(Deps{
		Schedules:       schedules,
		Links:           memory.NewDeviceLinkRepository(),
		Vitals:          vitalsRepo,
		Notifications:   memory.NewNotificationRepository(),
		Pets:            pets,
		Channel:         channel,
		Tracker:         tracker,
		Scheduler:       scheduler,
		Detector:        vitals.NewDetector(nopNotifier{}),
		Tokens:          &nopTokens{},
		VitalsStaleness: 20 * time.Second,
	})
	require.NoError(t, svc.Validate())

	f := &fixture{
		svc: svc, channel: channel, tracker: tracker,
		pets: pets, vitals: vitalsRepo,
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return f.now }
	return f
}

func TestSaveScheduleNormalizesAndArms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.SaveSchedule(ctx, &models.FeedingSchedule{
		PetID: "42", Morning: "7:00 AM", Afternoon: "1:00 PM", Night: "9:00 PM",
	})
	require.NoError(t, err)

	stored, err := f.svc.GetSchedule(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "07:00", stored.Morning)
	assert.Equal(t, "13:00", stored.Afternoon)
	assert.Equal(t, "21:00", stored.Night)

	events := f.svc.FeedStatus("42")
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, models.FeedUpcoming, ev.Status)
	}
	assert.Equal(t, []string{"set 07:00", "set 13:00", "set 21:00"}, f.channel.Published())
}

func TestSaveScheduleRejectsMalformedTimeWithoutStoring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.SaveSchedule(ctx, &models.FeedingSchedule{
		PetID: "42", Morning: "7:00 AM", Afternoon: "25:00", Night: "9:00 PM",
	})
	require.Error(t, err)
	assert.True(t, errors.IsFormat(err))

	stored, err := f.svc.GetSchedule(ctx, "42")
	require.NoError(t, err)
	assert.False(t, stored.IsSet())
	assert.Empty(t, f.channel.Published())
}

func TestGetScheduleUnsetSentinel(t *testing.T) {
	f := newFixture(t)

	stored, err := f.svc.GetSchedule(context.Background(), "never-configured")
	require.NoError(t, err)
	assert.False(t, stored.IsSet())
	assert.Equal(t, "never-configured", stored.PetID)
}

func TestLinkDeviceConflictKeepsOriginalBinding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))

	err := f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "99", Owner: "sam@example.com", Kind: models.DeviceCollar,
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	link, err := f.svc.DeviceForPet(ctx, "42", models.DeviceCollar)
	require.NoError(t, err)
	assert.Equal(t, "collar-1", link.DeviceID)
	assert.Equal(t, "jo@example.com", link.Owner)
}

func TestLinkDeviceSamePairIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link := &models.DeviceLink{
		DeviceID: "feeder-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceDispenser,
	}
	require.NoError(t, f.svc.LinkDevice(ctx, link))
	require.NoError(t, f.svc.LinkDevice(ctx, link))
}

func TestUnlinkDeviceRequiresExactBinding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))

	err := f.svc.UnlinkDevice(ctx, "collar-1", "99", "jo@example.com")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, f.svc.UnlinkDevice(ctx, "collar-1", "42", "jo@example.com"))
}

func TestIsConnectedNeedsLinkAndFreshWeight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	connected, err := f.svc.IsConnected(ctx, "42")
	require.NoError(t, err)
	assert.False(t, connected, "no dispenser link")

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "feeder-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceDispenser,
	}))

	connected, err = f.svc.IsConnected(ctx, "42")
	require.NoError(t, err)
	assert.False(t, connected, "linked but no weight feed")

	f.tracker.OnWeight(120.5)
	connected, err = f.svc.IsConnected(ctx, "42")
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestCurrentWeight(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CurrentWeight()
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	f.tracker.OnWeight(98.2)
	reading, err := f.svc.CurrentWeight()
	require.NoError(t, err)
	assert.Equal(t, 98.2, reading.Weight)
	assert.True(t, reading.Live)
}

func TestLatestVitalsRequiresCollarLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LatestVitals(ctx, "42")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestLatestVitalsStaleSampleIsUnusable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))
	f.pets.Put(models.Pet{ID: "42", Species: "dog", AgeYears: 4})

	require.NoError(t, f.vitals.Insert(ctx, &models.VitalsSample{
		PetID: "42", TemperatureF: 101.5, HeartRate: 90,
		MotionState: models.MotionStable, Timestamp: f.now.Add(-25 * time.Second),
	}))

	_, err := f.svc.LatestVitals(ctx, "42")
	require.Error(t, err)
	assert.True(t, errors.IsStaleData(err))
}

func TestLatestVitalsComposite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "collar-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))
	f.pets.Put(models.Pet{ID: "42", Species: "dog", AgeYears: 4})

	require.NoError(t, f.vitals.Insert(ctx, &models.VitalsSample{
		PetID: "42", TemperatureF: 106.0, HeartRate: 90,
		MotionState: models.MotionStable, Timestamp: f.now.Add(-5 * time.Second),
	}))

	status, err := f.svc.LatestVitals(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHigh, status.TemperatureStatus)
	assert.Equal(t, models.StatusNormal, status.HeartRateStatus)
	assert.Equal(t, models.Range{Low: 70, High: 120}, status.Range.HeartRate)
}

func TestIngestVitalsDerivesTemperatureUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.IngestVitals(ctx, &models.VitalsSample{
		PetID: "42", TemperatureC: 38.5, HeartRate: 80,
	}))

	sample, err := f.vitals.Latest(ctx, "42")
	require.NoError(t, err)
	assert.InDelta(t, 101.3, sample.TemperatureF, 0.01)
	assert.Equal(t, models.MotionStable, sample.MotionState)
	assert.Equal(t, f.now, sample.Timestamp)
}

func TestRegisterPushToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Error(t, f.svc.RegisterPushToken(ctx, "", "tok"))
	require.NoError(t, f.svc.RegisterPushToken(ctx, "jo@example.com", "ExponentPushToken[abc]"))

	tokens := f.svc.Tokens.(*nopTokens)
	assert.Equal(t, "ExponentPushToken[abc]", tokens.saved["jo@example.com"])
}

func TestRelinkSameDeviceUpdatesKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "dev-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceCollar,
	}))
	require.NoError(t, f.svc.LinkDevice(ctx, &models.DeviceLink{
		DeviceID: "dev-1", PetID: "42", Owner: "jo@example.com", Kind: models.DeviceDispenser,
	}))

	link, err := f.svc.DeviceForPet(ctx, "42", models.DeviceDispenser)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", link.DeviceID)

	_, err = f.svc.DeviceForPet(ctx, "42", models.DeviceCollar)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "old kind must not linger")
}

func TestDeletePetDataClearsScheduleAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveSchedule(ctx, &models.FeedingSchedule{
		PetID: "42", Morning: "7:00 AM", Afternoon: "1:00 PM", Night: "9:00 PM",
	}))
	require.NotEmpty(t, f.svc.FeedStatus("42"))

	require.NoError(t, f.svc.DeletePetData(ctx, "42"))

	stored, err := f.svc.GetSchedule(ctx, "42")
	require.NoError(t, err)
	assert.False(t, stored.IsSet())
	assert.Empty(t, f.svc.FeedStatus("42"))
}
