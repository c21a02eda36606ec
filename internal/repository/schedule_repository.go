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

// ScheduleRepository provides database access for persisted schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a persisted schedule.
func (r *ScheduleRepository) Create(ctx context.Context, record *models.ScheduleRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO schedules (id, user_id, start_date, end_date, status, allocator, notes, blocks, created_at, updated_at) VALUES (:id, :user_id, :start_date, :end_date, :status, :allocator, :notes, :blocks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// FindByID returns a schedule scoped to its owner.
func (r *ScheduleRepository) FindByID(ctx context.Context, userID, id string) (*models.ScheduleRecord, error) {
	const query = `SELECT id, user_id, start_date, end_date, status, allocator, notes, blocks, created_at, updated_at FROM schedules WHERE id = $1 AND user_id = $2 LIMIT 1`
	var record models.ScheduleRecord
	if err := r.db.GetContext(ctx, &record, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return &record, nil
}

// List returns schedules for a user, newest first, with total count.
func (r *ScheduleRepository) List(ctx context.Context, userID string, page, pageSize int) ([]models.ScheduleRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT id, user_id, start_date, end_date, status, allocator, notes, blocks, created_at, updated_at FROM schedules WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, pageSize, offset)
	records := []models.ScheduleRecord{}
	if err := r.db.SelectContext(ctx, &records, listQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM schedules WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}
	return records, total, nil
}

// UpdateStatus moves a schedule through its lifecycle.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, userID, id string, status models.ScheduleStatus) error {
	const query = `UPDATE schedules SET status = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a schedule scoped to its owner.
func (r *ScheduleRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM schedules WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
