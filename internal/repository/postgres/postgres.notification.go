package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type NotificationRepo struct {
	PostgresBaseRepo
}

func NewNotificationRepository(db database.DB) *NotificationRepo {
	repo := &PostgresBaseRepo{db: db}
	return &NotificationRepo{PostgresBaseRepo: *repo}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, pet_id, title, body, data, created_at)
		VALUES (:id, :pet_id, :title, :body, :data, :created_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, notification)
	if err != nil {
		return errors.NewDatabaseError("failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepo) ListByPet(ctx context.Context, petID string) ([]*models.Notification, error) {
	notifications := []*models.Notification{}
	query := `SELECT * FROM notifications WHERE pet_id = $1 ORDER BY created_at DESC`

	err := r.db.GetDB().SelectContext(ctx, &notifications, query, petID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list notifications", err)
	}
	return notifications, nil
}

func (r *NotificationRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM notifications WHERE id IN (?)`, ids)
	if err != nil {
		return errors.NewDatabaseError("failed to build delete query", err)
	}
	query = r.db.GetDB().Rebind(query)

	_, err = r.db.GetDB().ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewDatabaseError("failed to delete notifications", err)
	}
	return nil
}

func (r *NotificationRepo) DeleteByPet(ctx context.Context, petID string) error {
	query := `DELETE FROM notifications WHERE pet_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, petID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete notifications", err)
	}
	return nil
}
