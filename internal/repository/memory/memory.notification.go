package memory

import (
	"context"
	"sync"

	"github.com/petprotect/hub/internal/models"
)

type NotificationRepo struct {
	baseRepo
	mu            sync.RWMutex
	notifications []models.Notification
}

func NewNotificationRepository() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *NotificationRepo) ListByPet(ctx context.Context, petID string) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].PetID == petID {
			n := r.notifications[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (r *NotificationRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if !drop[n.ID] {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *NotificationRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.PetID != petID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}
