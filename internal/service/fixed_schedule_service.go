package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type classRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]models.ClassBlock, error)
	FindByID(ctx context.Context, userID, id string) (*models.ClassBlock, error)
	Create(ctx context.Context, class *models.ClassBlock) error
	Update(ctx context.Context, class *models.ClassBlock) error
	Delete(ctx context.Context, userID, id string) error
}

type regularBlockRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]models.RegularBlock, error)
	FindByID(ctx context.Context, userID, id string) (*models.RegularBlock, error)
	Create(ctx context.Context, block *models.RegularBlock) error
	Update(ctx context.Context, block *models.RegularBlock) error
	Delete(ctx context.Context, userID, id string) error
}

// FixedScheduleService manages classes and recurring commitments. Every write
// runs the overlap check against the rest of the same weekday first.
type FixedScheduleService struct {
	classes   classRepository
	blocks    regularBlockRepository
	overlaps  *OverlapValidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFixedScheduleService constructs a FixedScheduleService instance.
func NewFixedScheduleService(classes classRepository, blocks regularBlockRepository, validate *validator.Validate, logger *zap.Logger) *FixedScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FixedScheduleService{
		classes:   classes,
		blocks:    blocks,
		overlaps:  NewOverlapValidator(),
		validator: validate,
		logger:    logger,
	}
}

// ListClasses returns the user's weekly classes.
func (s *FixedScheduleService) ListClasses(ctx context.Context, userID string) ([]models.ClassBlock, error) {
	classes, err := s.classes.ListByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// CreateClass validates, overlap-checks and stores a class.
func (s *FixedScheduleService) CreateClass(ctx context.Context, userID string, req dto.CreateClassRequest) (*models.ClassBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.ClassBlock{
		UserID:    userID,
		Name:      req.Name,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}
	if err := s.checkWeekdayConflict(ctx, userID, class.Name, class.DayOfWeek, class.StartTime, class.EndTime, class.ID); err != nil {
		return nil, err
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// UpdateClass applies a partial update, re-running the overlap check.
func (s *FixedScheduleService) UpdateClass(ctx context.Context, userID, id string, req dto.UpdateClassRequest) (*models.ClassBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.classes.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.DayOfWeek != nil {
		class.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		class.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		class.EndTime = *req.EndTime
	}
	if req.Location != nil {
		class.Location = req.Location
	}

	if err := s.checkWeekdayConflict(ctx, userID, class.Name, class.DayOfWeek, class.StartTime, class.EndTime, class.ID); err != nil {
		return nil, err
	}
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// DeleteClass removes a class.
func (s *FixedScheduleService) DeleteClass(ctx context.Context, userID, id string) error {
	if err := s.classes.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// ListRegularBlocks returns the user's recurring commitments.
func (s *FixedScheduleService) ListRegularBlocks(ctx context.Context, userID string) ([]models.RegularBlock, error) {
	blocks, err := s.blocks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list regular blocks")
	}
	return blocks, nil
}

// CreateRegularBlock validates, overlap-checks and stores a recurring block.
func (s *FixedScheduleService) CreateRegularBlock(ctx context.Context, userID string, req dto.CreateRegularBlockRequest) (*models.RegularBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}

	block := &models.RegularBlock{
		UserID:    userID,
		Name:      req.Name,
		BlockType: req.BlockType,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.checkWeekdayConflict(ctx, userID, block.Name, block.DayOfWeek, block.StartTime, block.EndTime, block.ID); err != nil {
		return nil, err
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create regular block")
	}
	return block, nil
}

// UpdateRegularBlock applies a partial update, re-running the overlap check.
func (s *FixedScheduleService) UpdateRegularBlock(ctx context.Context, userID, id string, req dto.UpdateRegularBlockRequest) (*models.RegularBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}

	block, err := s.blocks.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "regular block not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load regular block")
	}

	if req.Name != nil {
		block.Name = *req.Name
	}
	if req.BlockType != nil {
		block.BlockType = *req.BlockType
	}
	if req.DayOfWeek != nil {
		block.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}

	if err := s.checkWeekdayConflict(ctx, userID, block.Name, block.DayOfWeek, block.StartTime, block.EndTime, block.ID); err != nil {
		return nil, err
	}
	if err := s.blocks.Update(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update regular block")
	}
	return block, nil
}

// DeleteRegularBlock removes a recurring block.
func (s *FixedScheduleService) DeleteRegularBlock(ctx context.Context, userID, id string) error {
	if err := s.blocks.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "regular block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete regular block")
	}
	return nil
}

// checkWeekdayConflict runs the overlap check for a candidate entry against
// every class and recurring block already stored for the same weekday. The
// entry identified by excludeID is skipped so updates do not conflict with
// their own previous version.
func (s *FixedScheduleService) checkWeekdayConflict(ctx context.Context, userID, name string, day int, startRaw, endRaw, excludeID string) error {
	start, err := models.ParseClock(startRaw)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("startTime: %v", err))
	}
	end, err := models.ParseClock(endRaw)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("endTime: %v", err))
	}
	interval, err := models.NewInterval(start, end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	day0 := fmt.Sprintf("weekday-%d", day)
	timed := []TimedBlock{{Name: name, Date: day0, Interval: interval}}

	classes, err := s.classes.ListByUserID(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	for _, c := range classes {
		if c.ID == excludeID || c.DayOfWeek != day {
			continue
		}
		if t, ok := weekdayTimedBlock(c.Name, day0, c.StartTime, c.EndTime); ok {
			timed = append(timed, t)
		}
	}

	blocks, err := s.blocks.ListByUserID(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list regular blocks")
	}
	for _, b := range blocks {
		if b.ID == excludeID || b.DayOfWeek != day {
			continue
		}
		if t, ok := weekdayTimedBlock(b.Name, day0, b.StartTime, b.EndTime); ok {
			timed = append(timed, t)
		}
	}

	if overlaps := s.overlaps.Check(timed); len(overlaps) > 0 {
		return appErrors.Clone(appErrors.ErrOverlapDetected, overlaps[0].Reason)
	}
	return nil
}

func weekdayTimedBlock(name, date, startRaw, endRaw string) (TimedBlock, bool) {
	start, err := models.ParseClock(startRaw)
	if err != nil {
		return TimedBlock{}, false
	}
	end, err := models.ParseClock(endRaw)
	if err != nil {
		return TimedBlock{}, false
	}
	interval, err := models.NewInterval(start, end)
	if err != nil {
		return TimedBlock{}, false
	}
	return TimedBlock{Name: name, Date: date, Interval: interval}, true
}
