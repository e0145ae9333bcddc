package postgres

import (
	"context"
	"database/sql"

	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

// PetRepo reads from the pets table owned by the profile service. This
// service never writes it.
type PetRepo struct {
	PostgresBaseRepo
}

func NewPetRepository(db database.DB) *PetRepo {
	repo := &PostgresBaseRepo{db: db}
	return &PetRepo{PostgresBaseRepo: *repo}
}

func (r *PetRepo) Get(ctx context.Context, petID string) (*models.Pet, error) {
	pet := &models.Pet{}
	query := `SELECT id, name, type, age, user_email FROM pets WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, pet, query, petID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("pet not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get pet", err)
	}
	return pet, nil
}
