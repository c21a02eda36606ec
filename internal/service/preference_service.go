package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type preferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error)
	Upsert(ctx context.Context, record *models.PreferenceRecord) error
}

// PreferenceService manages the per-user planning profile.
type PreferenceService struct {
	repo      preferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs a PreferenceService instance.
func NewPreferenceService(repo preferenceRepository, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PreferenceService{repo: repo, validator: validate, logger: logger}
}

// Get returns the decoded profile. A user without a stored profile gets the
// zero view, which the planner fills with defaults.
func (s *PreferenceService) Get(ctx context.Context, userID string) (*dto.PreferencesView, error) {
	record, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.PreferencesView{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return recordToView(record, s.logger), nil
}

// Update validates and persists the profile.
func (s *PreferenceService) Update(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*dto.PreferencesView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}
	if err := checkClockFields(req); err != nil {
		return nil, err
	}

	record := &models.PreferenceRecord{
		UserID:          userID,
		WakeTime:        req.WakeTime,
		SleepTime:       req.SleepTime,
		MinFreeHours:    req.MinFreeHours,
		BreakFrequency:  req.BreakFrequency,
		BreakDuration:   req.BreakDuration,
		IncludeWeekends: req.IncludeWeekends,
	}
	if req.FocusPeriod != "" {
		record.FocusPeriod = &req.FocusPeriod
	}

	var err error
	if record.PreferredPeriods, err = marshalJSONText(req.PreferredPeriods, "[]"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode preferred periods")
	}
	if record.Routines, err = marshalJSONText(req.Routines, "{}"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode routines")
	}
	if record.Meals, err = marshalJSONText(req.Meals, "{}"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode meals")
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preferences")
	}
	return recordToView(record, s.logger), nil
}

// checkClockFields rejects malformed times on the write path; the read path
// substitutes defaults instead.
func checkClockFields(req dto.UpdatePreferencesRequest) error {
	fields := map[string]string{
		"wakeTime":  req.WakeTime,
		"sleepTime": req.SleepTime,
	}
	if req.Routines != nil {
		fields["eveningRoutineStart"] = req.Routines.EveningRoutineStart
	}
	if req.Meals != nil {
		fields["meals.breakfast"] = req.Meals.Breakfast
		fields["meals.lunch"] = req.Meals.Lunch
		fields["meals.dinner"] = req.Meals.Dinner
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if _, err := models.ParseClock(value); err != nil {
			return appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("%s: %v", name, err))
		}
	}
	return nil
}

func marshalJSONText(v any, empty string) (types.JSONText, error) {
	if v == nil {
		return types.JSONText(empty), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

func recordToView(record *models.PreferenceRecord, logger *zap.Logger) *dto.PreferencesView {
	view := &dto.PreferencesView{Preferences: decodePreferences(record)}
	if len(record.Routines) > 0 {
		if err := json.Unmarshal(record.Routines, &view.Routines); err != nil {
			logger.Warn("ignoring malformed stored routines", zap.Error(err))
		}
	}
	if len(record.Meals) > 0 {
		if err := json.Unmarshal(record.Meals, &view.Meals); err != nil {
			logger.Warn("ignoring malformed stored meals", zap.Error(err))
		}
	}
	return view
}
