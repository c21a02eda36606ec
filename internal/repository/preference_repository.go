package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

// PreferenceRepository provides database access for planning profiles.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new instance of PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetByUserID returns the stored profile for a user.
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	const query = `SELECT id, user_id, wake_time, sleep_time, preferred_periods, min_free_hours, break_frequency, break_duration, include_weekends, focus_period, routines, meals, created_at, updated_at FROM preferences WHERE user_id = $1 LIMIT 1`
	var record models.PreferenceRecord
	if err := r.db.GetContext(ctx, &record, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &record, nil
}

// Upsert stores the profile, replacing any existing row for the user.
func (r *PreferenceRepository) Upsert(ctx context.Context, record *models.PreferenceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO preferences (id, user_id, wake_time, sleep_time, preferred_periods, min_free_hours, break_frequency, break_duration, include_weekends, focus_period, routines, meals, created_at, updated_at)
VALUES (:id, :user_id, :wake_time, :sleep_time, :preferred_periods, :min_free_hours, :break_frequency, :break_duration, :include_weekends, :focus_period, :routines, :meals, :created_at, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET wake_time = EXCLUDED.wake_time, sleep_time = EXCLUDED.sleep_time, preferred_periods = EXCLUDED.preferred_periods, min_free_hours = EXCLUDED.min_free_hours, break_frequency = EXCLUDED.break_frequency, break_duration = EXCLUDED.break_duration, include_weekends = EXCLUDED.include_weekends, focus_period = EXCLUDED.focus_period, routines = EXCLUDED.routines, meals = EXCLUDED.meals, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
