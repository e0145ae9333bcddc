package hubservice

import (
	"context"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// LinkDevice binds a device to a pet. Re-linking the same pair refreshes the
// binding; a device already bound to a different pet is a conflict and the
// original binding stays untouched.
func (s *HubService) LinkDevice(ctx context.Context, link *models.DeviceLink) error {
	if link.DeviceID == "" || link.PetID == "" || link.Owner == "" {
		return errors.NewValidationError("device id, pet id and owner are required", nil)
	}
	if link.Kind != models.DeviceCollar && link.Kind != models.DeviceDispenser {
		return errors.NewValidationError("device kind must be collar or dispenser", nil)
	}

	// The repository upsert is the conflict guard; checking here first would
	// race against concurrent link requests for the same device.
	link.LinkedAt = s.now()
	if err := s.Links.Upsert(ctx, link); err != nil {
		return err
	}

	nuts.L.Infof("[DeviceService] Linked %s %s to pet %s", link.Kind, link.DeviceID, link.PetID)
	return nil
}

// UnlinkDevice removes a binding. The exact (device, pet, owner) triple must
// match an existing link.
func (s *HubService) UnlinkDevice(ctx context.Context, deviceID, petID, owner string) error {
	if err := s.Links.Delete(ctx, deviceID, petID, owner); err != nil {
		return err
	}
	nuts.L.Infof("[DeviceService] Unlinked device %s from pet %s", deviceID, petID)
	return nil
}

// DeviceForPet returns the pet's current link of the given kind.
func (s *HubService) DeviceForPet(ctx context.Context, petID string, kind models.DeviceKind) (*models.DeviceLink, error) {
	return s.Links.GetForPet(ctx, petID, kind)
}

// IsConnected reports whether the pet's feeder is reachable: a dispenser
// link exists and the weight feed is fresh.
func (s *HubService) IsConnected(ctx context.Context, petID string) (bool, error) {
	_, err := s.Links.GetForPet(ctx, petID, models.DeviceDispenser)
	if errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.Tracker.Live(), nil
}
