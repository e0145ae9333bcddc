package alerting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/petprotect/hub/internal/models"
	"github.com/petprotect/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// EventLocalNotification is emitted when push delivery fails and the
// notification falls back to in-process delivery.
const EventLocalNotification = "notification.local"

// TokenLookup resolves an owner's push token.
type TokenLookup interface {
	Get(ctx context.Context, owner string) (string, error)
}

// Dispatcher routes an alert to the owner's phone. Push first; if anything
// on that path fails the notification is delivered locally instead. The
// durable record is written in both cases.
type Dispatcher struct {
	links         repository.DeviceLinkRepository
	tokens        TokenLookup
	relay         PushRelay
	notifications repository.NotificationRepository
	vitals        repository.VitalsRepository
	events        *nuts.EventEmitter
	now           func() time.Time
}

func NewDispatcher(
	links repository.DeviceLinkRepository,
	tokens TokenLookup,
	relay PushRelay,
	notifications repository.NotificationRepository,
	vitals repository.VitalsRepository,
) *Dispatcher {
	return &Dispatcher{
		links:         links,
		tokens:        tokens,
		relay:         relay,
		notifications: notifications,
		vitals:        vitals,
		events:        nuts.NewEventEmitter(),
		now:           time.Now,
	}
}

// OnLocalNotification registers a handler for the local-delivery fallback.
func (d *Dispatcher) OnLocalNotification(name string, handler func(petID, title, body string)) {
	d.events.On(EventLocalNotification, name, func(petID, title, body string) {
		handler(petID, title, body)
	})
}

// Dispatch sends one alert for a pet. It never returns an error: delivery
// problems degrade to the local fallback and are logged, not propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, petID, title, body string) {
	data := d.vitalsContext(ctx, petID)

	if err := d.push(ctx, petID, title, body, data); err != nil {
		nuts.L.Warnf("[Alerting] Push delivery failed for pet %s, falling back to local: %v", petID, err)
		d.events.Emit(EventLocalNotification, petID, title, body)
	} else {
		nuts.L.Infof("[Alerting] Push notification %q delivered for pet %s", title, petID)
	}

	d.record(ctx, petID, title, body, data)
}

func (d *Dispatcher) push(ctx context.Context, petID, title, body string, data map[string]string) error {
	link, err := d.links.GetForPet(ctx, petID, models.DeviceCollar)
	if err != nil {
		return err
	}
	token, err := d.tokens.Get(ctx, link.Owner)
	if err != nil {
		return err
	}
	return d.relay.Send(ctx, token, title, body, data)
}

// vitalsContext attaches the latest reading to the notification payload so
// the app can show numbers alongside the alert. Best effort.
func (d *Dispatcher) vitalsContext(ctx context.Context, petID string) map[string]string {
	sample, err := d.vitals.Latest(ctx, petID)
	if err != nil {
		return nil
	}
	encoded, err := json.Marshal(sample)
	if err != nil {
		return nil
	}
	return map[string]string{"petId": petID, "vitals": string(encoded)}
}

func (d *Dispatcher) record(ctx context.Context, petID, title, body string, data map[string]string) {
	payload := ""
	if data != nil {
		if encoded, err := json.Marshal(data); err == nil {
			payload = string(encoded)
		}
	}

	notification := &models.Notification{
		ID:        nuts.NID("ntf", 12),
		PetID:     petID,
		Title:     title,
		Body:      body,
		Data:      payload,
		CreatedAt: d.now(),
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		nuts.L.Errorf("[Alerting] Failed to persist notification record for pet %s: %v", petID, err)
	}
}
