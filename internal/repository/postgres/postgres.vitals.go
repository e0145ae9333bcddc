package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/errors"
	"github.com/petprotect/hub/internal/models"
)

type VitalsRepo struct {
	PostgresBaseRepo
}

func NewVitalsRepository(db database.DB) *VitalsRepo {
	repo := &PostgresBaseRepo{db: db}
	return &VitalsRepo{PostgresBaseRepo: *repo}
}

func (r *VitalsRepo) Insert(ctx context.Context, sample *models.VitalsSample) error {
	query := `
		INSERT INTO vitals_samples (
			pet_id, motion_state, temperature_c, temperature_f, heart_rate, timestamp
		) VALUES (
			:pet_id, :motion_state, :temperature_c, :temperature_f, :heart_rate, :timestamp
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, sample)
	if err != nil {
		return errors.NewDatabaseError("failed to insert vitals sample", err)
	}
	return nil
}

func (r *VitalsRepo) Latest(ctx context.Context, petID string) (*models.VitalsSample, error) {
	sample := &models.VitalsSample{}
	query := `SELECT * FROM vitals_samples WHERE pet_id = $1 ORDER BY id DESC LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, sample, query, petID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no vitals data available", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest vitals", err)
	}
	return sample, nil
}

func (r *VitalsRepo) History(ctx context.Context, petID string, limit int) ([]*models.VitalsSample, error) {
	samples := []*models.VitalsSample{}
	query := `
		SELECT * FROM (
			SELECT * FROM vitals_samples WHERE pet_id = $1 ORDER BY timestamp DESC LIMIT $2
		) recent ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &samples, query, petID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get vitals history", err)
	}
	return samples, nil
}

func (r *VitalsRepo) SummaryForDay(ctx context.Context, petID string, day time.Time) (*models.ActivitySummary, error) {
	summary := &models.ActivitySummary{}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE motion_state = 'STABLE')    AS calm_minutes,
			COUNT(*) FILTER (WHERE motion_state = 'MOVING')    AS active_minutes,
			COUNT(*) FILTER (WHERE motion_state = 'HIT/CRASH') AS hit_count
		FROM vitals_samples
		WHERE pet_id = $1 AND timestamp::date = $2::date`

	err := r.db.GetDB().GetContext(ctx, summary, query, petID, day)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get activity summary", err)
	}
	return summary, nil
}

func (r *VitalsRepo) DeleteByPet(ctx context.Context, petID string) error {
	query := `DELETE FROM vitals_samples WHERE pet_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, petID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete vitals samples", err)
	}
	return nil
}
