package hubservice

import (
	"context"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CreateNotification records a notification raised outside the alert path,
// e.g. by the app itself.
func (s *HubService) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.PetID == "" || notification.Title == "" {
		return errors.NewValidationError("pet id and title are required", nil)
	}
	if notification.ID == "" {
		notification.ID = nuts.NID("ntf", 12)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = s.now()
	}
	return s.Notifications.Create(ctx, notification)
}

// ListNotifications returns a pet's notification history, newest first.
func (s *HubService) ListNotifications(ctx context.Context, petID string) ([]*models.Notification, error) {
	if petID == "" {
		return nil, errors.NewValidationError("pet id is required", nil)
	}
	return s.Notifications.ListByPet(ctx, petID)
}

// DeleteNotifications removes a batch of notification records by id.
func (s *HubService) DeleteNotifications(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return errors.NewValidationError("at least one notification id is required", nil)
	}
	return s.Notifications.DeleteByIDs(ctx, ids)
}

// RegisterPushToken stores the owner's push token for alert delivery.
func (s *HubService) RegisterPushToken(ctx context.Context, owner, token string) error {
	if owner == "" || token == "" {
		return errors.NewValidationError("owner and token are required", nil)
	}
	if s.Tokens == nil {
		return errors.NewInternalError("push token registry not configured", nil)
	}
	if err := s.Tokens.Save(ctx, owner, token); err != nil {
		return err
	}
	nuts.L.Infof("[NotificationService] Push token registered for %s", owner)
	return nil
}
