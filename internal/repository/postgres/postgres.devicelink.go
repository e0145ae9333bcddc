package postgres

import (
	"context"
	"database/sql"

	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type DeviceLinkRepo struct {
	PostgresBaseRepo
}

func NewDeviceLinkRepository(db database.DB) *DeviceLinkRepo {
	repo := &PostgresBaseRepo{db: db}
	return &DeviceLinkRepo{PostgresBaseRepo: *repo}
}

func (r *DeviceLinkRepo) Get(ctx context.Context, deviceID string) (*models.DeviceLink, error) {
	link := &models.DeviceLink{}
	query := `SELECT * FROM device_links WHERE device_id = $1`

	err := r.db.GetDB().GetContext(ctx, link, query, deviceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device link not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device link", err)
	}
	return link, nil
}

func (r *DeviceLinkRepo) GetForPet(ctx context.Context, petID string, kind models.DeviceKind) (*models.DeviceLink, error) {
	link := &models.DeviceLink{}
	query := `SELECT * FROM device_links WHERE pet_id = $1 AND kind = $2`

	err := r.db.GetDB().GetContext(ctx, link, query, petID, kind)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no device linked to pet", err)
		}
		return nil, errors.NewDatabaseError("failed to get device link", err)
	}
	return link, nil
}

// Upsert inserts or refreshes a link. The update clause only applies when
// the existing row already belongs to the same pet, so a device bound to a
// different pet conflicts atomically instead of being overwritten by a
// concurrent link request.
func (r *DeviceLinkRepo) Upsert(ctx context.Context, link *models.DeviceLink) error {
	query := `
		INSERT INTO device_links (device_id, pet_id, owner_email, kind, linked_at)
		VALUES (:device_id, :pet_id, :owner_email, :kind, :linked_at)
		ON CONFLICT (device_id) DO UPDATE SET
			pet_id = EXCLUDED.pet_id,
			owner_email = EXCLUDED.owner_email,
			kind = EXCLUDED.kind,
			linked_at = EXCLUDED.linked_at
		WHERE device_links.pet_id = EXCLUDED.pet_id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, link)
	if err != nil {
		return errors.NewDatabaseError("failed to save device link", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewConflictError("device is already linked to another pet", nil)
	}
	return nil
}

func (r *DeviceLinkRepo) Delete(ctx context.Context, deviceID, petID, owner string) error {
	query := `DELETE FROM device_links WHERE device_id = $1 AND pet_id = $2 AND owner_email = $3`

	result, err := r.db.GetDB().ExecContext(ctx, query, deviceID, petID, owner)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device link", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device is not linked", nil)
	}

	return nil
}

func (r *DeviceLinkRepo) ListByKind(ctx context.Context, kind models.DeviceKind) ([]*models.DeviceLink, error) {
	links := []*models.DeviceLink{}
	query := `SELECT * FROM device_links WHERE kind = $1 ORDER BY linked_at`

	err := r.db.GetDB().SelectContext(ctx, &links, query, kind)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list device links", err)
	}
	return links, nil
}

func (r *DeviceLinkRepo) DeleteByPet(ctx context.Context, petID string) error {
	query := `DELETE FROM device_links WHERE pet_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, petID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device links", err)
	}
	return nil
}
