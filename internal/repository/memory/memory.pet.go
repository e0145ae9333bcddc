package memory

import (
	"context"
	"sync"

	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type PetRepo struct {
	mu   sync.RWMutex
	pets map[string]models.Pet
}

func NewPetRepository() *PetRepo {
	return &PetRepo{pets: make(map[string]models.Pet)}
}

// Put seeds a pet profile; tests use this in place of the external CRUD.
func (r *PetRepo) Put(pet models.Pet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets[pet.ID] = pet
}

func (r *PetRepo) Get(ctx context.Context, petID string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pet, ok := r.pets[petID]
	if !ok {
		return nil, errors.NewNotFoundError("pet not found", nil)
	}
	out := pet
	return &out, nil
}
