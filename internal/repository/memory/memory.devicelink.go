package memory

import (
	"context"
	"sync"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type DeviceLinkRepo struct {
	baseRepo
	mu    sync.RWMutex
	links map[string]models.DeviceLink // keyed by device ID
}

func NewDeviceLinkRepository() *DeviceLinkRepo {
	return &DeviceLinkRepo{links: make(map[string]models.DeviceLink)}
}

func (r *DeviceLinkRepo) Get(ctx context.Context, deviceID string) (*models.DeviceLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	link, ok := r.links[deviceID]
	if !ok {
		return nil, errors.NewNotFoundError("device link not found", nil)
	}
	out := link
	return &out, nil
}

func (r *DeviceLinkRepo) GetForPet(ctx context.Context, petID string, kind models.DeviceKind) (*models.DeviceLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, link := range r.links {
		if link.PetID == petID && link.Kind == kind {
			out := link
			return &out, nil
		}
	}
	return nil, errors.NewNotFoundError("no device linked to pet", nil)
}

func (r *DeviceLinkRepo) Upsert(ctx context.Context, link *models.DeviceLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.links[link.DeviceID]; ok && existing.PetID != link.PetID {
		return errors.NewConflictError("device is already linked to another pet", nil)
	}
	r.links[link.DeviceID] = *link
	return nil
}

func (r *DeviceLinkRepo) Delete(ctx context.Context, deviceID, petID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[deviceID]
	if !ok || link.PetID != petID || link.Owner != owner {
		return errors.NewNotFoundError("device is not linked", nil)
	}
	delete(r.links, deviceID)
	return nil
}

func (r *DeviceLinkRepo) ListByKind(ctx context.Context, kind models.DeviceKind) ([]*models.DeviceLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.DeviceLink{}
	for _, link := range r.links {
		if link.Kind == kind {
			l := link
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *DeviceLinkRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, link := range r.links {
		if link.PetID == petID {
			delete(r.links, id)
		}
	}
	return nil
}
