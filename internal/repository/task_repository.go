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

// TaskRepository provides database access for assignments and exams.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListAssignments returns assignments for a user ordered by due date.
// Completed items are excluded unless includeCompleted is set.
func (r *TaskRepository) ListAssignments(ctx context.Context, userID string, includeCompleted bool) ([]models.Assignment, error) {
	query := `SELECT id, user_id, name, course, topic, due_date, priority, estimated_minutes, comment, completed, created_at, updated_at FROM assignments WHERE user_id = $1`
	if !includeCompleted {
		query += ` AND completed = FALSE`
	}
	query += ` ORDER BY due_date, name`

	assignments := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, userID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindAssignment returns an assignment scoped to its owner.
func (r *TaskRepository) FindAssignment(ctx context.Context, userID, id string) (*models.Assignment, error) {
	const query = `SELECT id, user_id, name, course, topic, due_date, priority, estimated_minutes, comment, completed, created_at, updated_at FROM assignments WHERE id = $1 AND user_id = $2 LIMIT 1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// CreateAssignment inserts a new assignment.
func (r *TaskRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, user_id, name, course, topic, due_date, priority, estimated_minutes, comment, completed, created_at, updated_at) VALUES (:id, :user_id, :name, :course, :topic, :due_date, :priority, :estimated_minutes, :comment, :completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateAssignment updates mutable fields of an assignment.
func (r *TaskRepository) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET name = :name, course = :course, topic = :topic, due_date = :due_date, priority = :priority, estimated_minutes = :estimated_minutes, comment = :comment, completed = :completed, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment scoped to its owner.
func (r *TaskRepository) DeleteAssignment(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM assignments WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListExams returns exams for a user ordered by date.
func (r *TaskRepository) ListExams(ctx context.Context, userID string) ([]models.Exam, error) {
	const query = `SELECT id, user_id, course, topic, exam_date, difficulty, comment, created_at, updated_at FROM exams WHERE user_id = $1 ORDER BY exam_date, course`
	exams := []models.Exam{}
	if err := r.db.SelectContext(ctx, &exams, query, userID); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// FindExam returns an exam scoped to its owner.
func (r *TaskRepository) FindExam(ctx context.Context, userID, id string) (*models.Exam, error) {
	const query = `SELECT id, user_id, course, topic, exam_date, difficulty, comment, created_at, updated_at FROM exams WHERE id = $1 AND user_id = $2 LIMIT 1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

// CreateExam inserts a new exam.
func (r *TaskRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = now
	}
	exam.UpdatedAt = now

	const query = `INSERT INTO exams (id, user_id, course, topic, exam_date, difficulty, comment, created_at, updated_at) VALUES (:id, :user_id, :course, :topic, :exam_date, :difficulty, :comment, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// UpdateExam updates mutable fields of an exam.
func (r *TaskRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET course = :course, topic = :topic, exam_date = :exam_date, difficulty = :difficulty, comment = :comment, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// DeleteExam removes an exam scoped to its owner.
func (r *TaskRepository) DeleteExam(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM exams WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
