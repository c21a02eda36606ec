package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type scheduleRepository interface {
	Create(ctx context.Context, record *models.ScheduleRecord) error
	FindByID(ctx context.Context, userID, id string) (*models.ScheduleRecord, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]models.ScheduleRecord, int, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.ScheduleStatus) error
	Delete(ctx context.Context, userID, id string) error
}

// ScheduleService persists accepted schedules. Saving re-runs the overlap
// check so a stored schedule is always conflict free.
type ScheduleService struct {
	repo      scheduleRepository
	overlaps  *OverlapValidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{
		repo:      repo,
		overlaps:  NewOverlapValidator(),
		validator: validate,
		logger:    logger,
	}
}

// Save validates and stores a schedule as a draft.
func (s *ScheduleService) Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.ScheduleRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	startDate, err := time.Parse(models.DateFormat, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	endDate, err := time.Parse(models.DateFormat, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	if overlaps := s.overlaps.CheckSchedule(req.Blocks); len(overlaps) > 0 {
		return nil, appErrors.Clone(appErrors.ErrOverlapDetected, overlaps[0].Reason)
	}

	blocks, err := json.Marshal(req.Blocks)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode blocks")
	}

	allocator := req.Allocator
	if allocator == "" {
		allocator = "rules"
	}

	record := &models.ScheduleRecord{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.ScheduleStatusDraft,
		Allocator: allocator,
		Notes:     req.Notes,
		Blocks:    types.JSONText(blocks),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
	}
	return record, nil
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, userID, id string) (*models.ScheduleRecord, error) {
	record, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return record, nil
}

// List returns paginated schedules.
func (s *ScheduleService) List(ctx context.Context, userID string, page, pageSize int) ([]models.ScheduleRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return records, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Accept marks a schedule as the active weekly plan.
func (s *ScheduleService) Accept(ctx context.Context, userID, id string) error {
	if err := s.repo.UpdateStatus(ctx, userID, id, models.ScheduleStatusAccepted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept schedule")
	}
	return nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}
