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

// RegularBlockRepository provides database access for recurring commitments.
type RegularBlockRepository struct {
	db *sqlx.DB
}

// NewRegularBlockRepository creates a new instance of RegularBlockRepository.
func NewRegularBlockRepository(db *sqlx.DB) *RegularBlockRepository {
	return &RegularBlockRepository{db: db}
}

// ListByUserID returns all recurring blocks for a user ordered by weekday and start.
func (r *RegularBlockRepository) ListByUserID(ctx context.Context, userID string) ([]models.RegularBlock, error) {
	const query = `SELECT id, user_id, name, block_type, day_of_week, start_time, end_time, created_at, updated_at FROM regular_blocks WHERE user_id = $1 ORDER BY day_of_week, start_time`
	blocks := []models.RegularBlock{}
	if err := r.db.SelectContext(ctx, &blocks, query, userID); err != nil {
		return nil, fmt.Errorf("list regular blocks: %w", err)
	}
	return blocks, nil
}

// FindByID returns a recurring block scoped to its owner.
func (r *RegularBlockRepository) FindByID(ctx context.Context, userID, id string) (*models.RegularBlock, error) {
	const query = `SELECT id, user_id, name, block_type, day_of_week, start_time, end_time, created_at, updated_at FROM regular_blocks WHERE id = $1 AND user_id = $2 LIMIT 1`
	var block models.RegularBlock
	if err := r.db.GetContext(ctx, &block, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find regular block: %w", err)
	}
	return &block, nil
}

// Create inserts a new recurring block.
func (r *RegularBlockRepository) Create(ctx context.Context, block *models.RegularBlock) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if block.CreatedAt.IsZero() {
		block.CreatedAt = now
	}
	block.UpdatedAt = now

	const query = `INSERT INTO regular_blocks (id, user_id, name, block_type, day_of_week, start_time, end_time, created_at, updated_at) VALUES (:id, :user_id, :name, :block_type, :day_of_week, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("create regular block: %w", err)
	}
	return nil
}

// Update updates mutable fields of a recurring block.
func (r *RegularBlockRepository) Update(ctx context.Context, block *models.RegularBlock) error {
	block.UpdatedAt = time.Now().UTC()
	const query = `UPDATE regular_blocks SET name = :name, block_type = :block_type, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, block); err != nil {
		return fmt.Errorf("update regular block: %w", err)
	}
	return nil
}

// Delete removes a recurring block scoped to its owner.
func (r *RegularBlockRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM regular_blocks WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete regular block: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
