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

// ClassRepository provides database access for weekly class occurrences.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByUserID returns all classes for a user ordered by weekday and start.
func (r *ClassRepository) ListByUserID(ctx context.Context, userID string) ([]models.ClassBlock, error) {
	const query = `SELECT id, user_id, name, day_of_week, start_time, end_time, location, created_at, updated_at FROM classes WHERE user_id = $1 ORDER BY day_of_week, start_time`
	classes := []models.ClassBlock{}
	if err := r.db.SelectContext(ctx, &classes, query, userID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class scoped to its owner.
func (r *ClassRepository) FindByID(ctx context.Context, userID, id string) (*models.ClassBlock, error) {
	const query = `SELECT id, user_id, name, day_of_week, start_time, end_time, location, created_at, updated_at FROM classes WHERE id = $1 AND user_id = $2 LIMIT 1`
	var class models.ClassBlock
	if err := r.db.GetContext(ctx, &class, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassBlock) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, user_id, name, day_of_week, start_time, end_time, location, created_at, updated_at) VALUES (:id, :user_id, :name, :day_of_week, :start_time, :end_time, :location, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update updates mutable fields of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassBlock) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, location = :location, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class scoped to its owner.
func (r *ClassRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM classes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
