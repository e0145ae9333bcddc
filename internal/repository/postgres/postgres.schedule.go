package postgres

import (
	"context"
	"database/sql"

	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type ScheduleRepo struct {
	PostgresBaseRepo
}

func NewScheduleRepository(db database.DB) *ScheduleRepo {
	repo := &PostgresBaseRepo{db: db}
	return &ScheduleRepo{PostgresBaseRepo: *repo}
}

func (r *ScheduleRepo) Upsert(ctx context.Context, schedule *models.FeedingSchedule) error {
	query := `
		INSERT INTO feeding_schedules (
			pet_id, morning, afternoon, night, owner_email, created_at, updated_at
		) VALUES (
			:pet_id, :morning, :afternoon, :night, :owner_email, :created_at, :updated_at
		)
		ON CONFLICT (pet_id) DO UPDATE SET
			morning = EXCLUDED.morning,
			afternoon = EXCLUDED.afternoon,
			night = EXCLUDED.night,
			owner_email = EXCLUDED.owner_email,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, schedule)
	if err != nil {
		return errors.NewDatabaseError("failed to save feeding schedule", err)
	}
	return nil
}

func (r *ScheduleRepo) Get(ctx context.Context, petID string) (*models.FeedingSchedule, error) {
	schedule := &models.FeedingSchedule{}
	query := `SELECT * FROM feeding_schedules WHERE pet_id = $1`

	err := r.db.GetDB().GetContext(ctx, schedule, query, petID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("feeding schedule not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get feeding schedule", err)
	}
	return schedule, nil
}

func (r *ScheduleRepo) List(ctx context.Context) ([]*models.FeedingSchedule, error) {
	schedules := []*models.FeedingSchedule{}
	query := `SELECT * FROM feeding_schedules ORDER BY pet_id`

	err := r.db.GetDB().SelectContext(ctx, &schedules, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list feeding schedules", err)
	}
	return schedules, nil
}

func (r *ScheduleRepo) DeleteByPet(ctx context.Context, petID string) error {
	query := `DELETE FROM feeding_schedules WHERE pet_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, petID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete feeding schedule", err)
	}
	return nil
}
