package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type taskRepository interface {
	ListAssignments(ctx context.Context, userID string, includeCompleted bool) ([]models.Assignment, error)
	FindAssignment(ctx context.Context, userID, id string) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, userID, id string) error
	ListExams(ctx context.Context, userID string) ([]models.Exam, error)
	FindExam(ctx context.Context, userID, id string) (*models.Exam, error)
	CreateExam(ctx context.Context, exam *models.Exam) error
	UpdateExam(ctx context.Context, exam *models.Exam) error
	DeleteExam(ctx context.Context, userID, id string) error
}

// TaskService manages the academic workload.
type TaskService struct {
	repo      taskRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(repo taskRepository, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TaskService{repo: repo, validator: validate, logger: logger}
}

// ListAssignments returns the user's assignments.
func (s *TaskService) ListAssignments(ctx context.Context, userID string, includeCompleted bool) ([]models.Assignment, error) {
	assignments, err := s.repo.ListAssignments(ctx, userID, includeCompleted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// CreateAssignment validates and stores an assignment.
func (s *TaskService) CreateAssignment(ctx context.Context, userID string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	dueDate, err := time.Parse(models.DateFormat, req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dueDate must be YYYY-MM-DD")
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	assignment := &models.Assignment{
		UserID:           userID,
		Name:             req.Name,
		Course:           req.Course,
		Topic:            req.Topic,
		DueDate:          dueDate,
		Priority:         priority,
		EstimatedMinutes: req.EstimatedMinutes,
		Comment:          req.Comment,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UpdateAssignment applies a partial update to an assignment.
func (s *TaskService) UpdateAssignment(ctx context.Context, userID, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment, err := s.repo.FindAssignment(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	if req.Name != nil {
		assignment.Name = *req.Name
	}
	if req.Course != nil {
		assignment.Course = *req.Course
	}
	if req.Topic != nil {
		assignment.Topic = *req.Topic
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(models.DateFormat, *req.DueDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dueDate must be YYYY-MM-DD")
		}
		assignment.DueDate = dueDate
	}
	if req.Priority != nil {
		assignment.Priority = *req.Priority
	}
	if req.EstimatedMinutes != nil {
		assignment.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Comment != nil {
		assignment.Comment = *req.Comment
	}
	if req.Completed != nil {
		assignment.Completed = *req.Completed
	}

	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment.
func (s *TaskService) DeleteAssignment(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteAssignment(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// ListExams returns the user's exams.
func (s *TaskService) ListExams(ctx context.Context, userID string) ([]models.Exam, error) {
	exams, err := s.repo.ListExams(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	return exams, nil
}

// CreateExam validates and stores an exam.
func (s *TaskService) CreateExam(ctx context.Context, userID string, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	date, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	exam := &models.Exam{
		UserID:     userID,
		Course:     req.Course,
		Topic:      req.Topic,
		Date:       date,
		Difficulty: req.Difficulty,
		Comment:    req.Comment,
	}
	if err := s.repo.CreateExam(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// UpdateExam applies a partial update to an exam.
func (s *TaskService) UpdateExam(ctx context.Context, userID, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	exam, err := s.repo.FindExam(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}

	if req.Course != nil {
		exam.Course = *req.Course
	}
	if req.Topic != nil {
		exam.Topic = *req.Topic
	}
	if req.Date != nil {
		date, err := time.Parse(models.DateFormat, *req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
		exam.Date = date
	}
	if req.Difficulty != nil {
		exam.Difficulty = *req.Difficulty
	}
	if req.Comment != nil {
		exam.Comment = *req.Comment
	}

	if err := s.repo.UpdateExam(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return exam, nil
}

// DeleteExam removes an exam.
func (s *TaskService) DeleteExam(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteExam(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}
