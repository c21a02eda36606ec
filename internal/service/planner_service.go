package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type plannerPreferenceStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.PreferenceRecord, error)
}

type plannerClassStore interface {
	ListByUserID(ctx context.Context, userID string) ([]models.ClassBlock, error)
}

type plannerRegularBlockStore interface {
	ListByUserID(ctx context.Context, userID string) ([]models.RegularBlock, error)
}

type plannerWorkloadStore interface {
	ListAssignments(ctx context.Context, userID string, includeCompleted bool) ([]models.Assignment, error)
	ListExams(ctx context.Context, userID string) ([]models.Exam, error)
}

type plannerCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// PlannerService orchestrates one planning run: snapshot assembly, window
// computation, allocation, validation and result caching.
type PlannerService struct {
	cfg         config.PlannerConfig
	preferences plannerPreferenceStore
	classes     plannerClassStore
	blocks      plannerRegularBlockStore
	workload    plannerWorkloadStore
	cache       plannerCache

	collector *FixedBlockCollector
	finder    *WindowFinder
	rules     Allocator
	oracle    Allocator
	overlaps  *OverlapValidator
	validator *ScheduleValidator
	logger    *zap.Logger
}

// PlannerServiceParams bundles the service dependencies.
type PlannerServiceParams struct {
	Config      config.PlannerConfig
	Preferences plannerPreferenceStore
	Classes     plannerClassStore
	Blocks      plannerRegularBlockStore
	Workload    plannerWorkloadStore
	Cache       plannerCache
	Oracle      Allocator
	Logger      *zap.Logger
}

// NewPlannerService wires the full planning pipeline. Oracle and Cache are
// optional; the rule-based planner and direct computation cover their absence.
func NewPlannerService(p PlannerServiceParams) *PlannerService {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := NewFixedBlockCollector(p.Config, logger)
	return &PlannerService{
		cfg:         p.Config,
		preferences: p.Preferences,
		classes:     p.Classes,
		blocks:      p.Blocks,
		workload:    p.Workload,
		cache:       p.Cache,
		collector:   collector,
		finder:      NewWindowFinder(p.Config, collector, logger),
		rules:       NewRuleBasedAllocator(p.Config, logger),
		oracle:      p.Oracle,
		overlaps:    NewOverlapValidator(),
		validator:   NewScheduleValidator(),
		logger:      logger,
	}
}

// Generate runs the full pipeline and returns the schedule with diagnostics.
// A schedule that cannot cover the whole workload is still returned, with the
// shortfall reported; only overlapping output is rejected outright.
func (s *PlannerService) Generate(ctx context.Context, userID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResult, error) {
	snapshot, err := s.buildSnapshot(ctx, userID, req.StartDate, req.Preferences, req.Fixed, req.Workload)
	if err != nil {
		return nil, err
	}

	cacheKey := snapshotCacheKey(snapshot, req.UseOracle)
	if s.cache != nil {
		var cached dto.GenerateScheduleResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			cached.Cached = true
			return &cached, nil
		}
	}

	dates, windows := s.finder.Find(snapshot)
	if len(dates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInfeasibleWorkload, "no plannable days in the requested horizon")
	}

	allocator := s.rules
	fellBack := false
	if req.UseOracle && s.oracle != nil {
		allocator = s.oracle
	}

	schedule, unmet, err := allocator.Plan(ctx, snapshot, dates, windows)
	if err != nil && allocator != s.rules {
		s.logger.Warn("oracle allocation failed, falling back to rules", zap.Error(err))
		fellBack = true
		allocator = s.rules
		schedule, unmet, err = allocator.Plan(ctx, snapshot, dates, windows)
	}
	if err != nil {
		return nil, err
	}

	// Generated blocks must clear both each other and the fixed commitments
	// they were planned around, and stay inside the awake span. The oracle
	// path is the one that can violate this.
	fixed := s.fixedTimedBlocks(snapshot, dates, schedule.Blocks)
	wake, sleep := s.collector.AwakeSpan(snapshot.Preferences)
	if overlaps := s.overlaps.CheckAgainstFixed(schedule.Blocks, fixed, wake, sleep); len(overlaps) > 0 {
		return nil, appErrors.Clone(appErrors.ErrOverlapDetected,
			fmt.Sprintf("generated schedule contains %d conflicting block pair(s): %s", len(overlaps), overlaps[0].Reason))
	}

	coverage, coverageUnmet := s.validator.Validate(schedule, snapshot.Workload)
	if len(unmet) == 0 {
		unmet = coverageUnmet
	}

	result := &dto.GenerateScheduleResult{
		Schedule:   schedule,
		Errors:     coverage.Errors,
		Warnings:   coverage.Warnings,
		UnmetTasks: unmet,
		Allocator:  allocator.Name(),
		FellBack:   fellBack,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache schedule", zap.Error(err))
		}
	}
	return result, nil
}

// Windows previews availability without allocating.
func (s *PlannerService) Windows(ctx context.Context, userID string, req dto.WindowsRequest) (*dto.WindowsResult, error) {
	snapshot, err := s.buildSnapshot(ctx, userID, req.StartDate, req.Preferences, req.Fixed, req.Workload)
	if err != nil {
		return nil, err
	}

	dates, windows := s.finder.Find(snapshot)
	result := &dto.WindowsResult{Dates: dates, Windows: make([]dto.WindowView, 0)}
	for _, date := range dates {
		for _, w := range windows[date] {
			result.Windows = append(result.Windows, dto.WindowView{
				Date:   date,
				Start:  w.Interval.Start.String(),
				End:    w.Interval.End.String(),
				Period: string(w.Period),
			})
		}
	}
	return result, nil
}

// ValidateBlocks runs the overlap check against caller-supplied blocks.
func (s *PlannerService) ValidateBlocks(req dto.ValidateBlocksRequest) *dto.ValidateBlocksResult {
	overlaps := s.overlaps.CheckSchedule(req.Blocks)
	return &dto.ValidateBlocksResult{Valid: len(overlaps) == 0, Overlaps: overlaps}
}

// fixedTimedBlocks collects the fixed commitments for every horizon date plus
// any extra date the allocator emitted blocks for.
func (s *PlannerService) fixedTimedBlocks(snapshot models.PlanSnapshot, dates []string, blocks []models.ScheduleBlock) []TimedBlock {
	seen := make(map[string]bool, len(dates))
	all := append([]string{}, dates...)
	for _, d := range dates {
		seen[d] = true
	}
	for _, b := range blocks {
		if !seen[b.Date] {
			seen[b.Date] = true
			all = append(all, b.Date)
		}
	}

	timed := make([]TimedBlock, 0, len(all)*4)
	for _, dateStr := range all {
		day, err := time.Parse(models.DateFormat, dateStr)
		if err != nil {
			continue
		}
		for _, fb := range s.collector.Collect(day, snapshot.Preferences, snapshot.Fixed) {
			timed = append(timed, TimedBlock{Name: fb.Name, Date: dateStr, Interval: fb.Interval})
		}
	}
	return timed
}

// buildSnapshot assembles the run input, preferring inline sections over the
// persisted profile.
func (s *PlannerService) buildSnapshot(ctx context.Context, userID, startDate string, prefs *models.Preferences, fixed *models.FixedSchedule, workload *models.Workload) (models.PlanSnapshot, error) {
	start, err := time.Parse(models.DateFormat, startDate)
	if err != nil {
		return models.PlanSnapshot{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("startDate %q must be YYYY-MM-DD", startDate))
	}

	snapshot := models.PlanSnapshot{StartDate: start}

	var record *models.PreferenceRecord
	if prefs == nil || fixed == nil {
		if s.preferences != nil {
			record, err = s.preferences.GetByUserID(ctx, userID)
			if err != nil && appErrors.FromError(err).Code != appErrors.ErrNotFound.Code {
				return models.PlanSnapshot{}, err
			}
		}
	}

	if prefs != nil {
		snapshot.Preferences = *prefs
	} else if record != nil {
		snapshot.Preferences = decodePreferences(record)
	}

	if fixed != nil {
		snapshot.Fixed = *fixed
	} else {
		snapshot.Fixed, err = s.loadFixedSchedule(ctx, userID, record)
		if err != nil {
			return models.PlanSnapshot{}, err
		}
	}

	if workload != nil {
		snapshot.Workload = *workload
	} else if s.workload != nil {
		assignments, err := s.workload.ListAssignments(ctx, userID, false)
		if err != nil {
			return models.PlanSnapshot{}, err
		}
		exams, err := s.workload.ListExams(ctx, userID)
		if err != nil {
			return models.PlanSnapshot{}, err
		}
		snapshot.Workload = models.Workload{Assignments: assignments, Exams: exams}
	}

	return snapshot, nil
}

func (s *PlannerService) loadFixedSchedule(ctx context.Context, userID string, record *models.PreferenceRecord) (models.FixedSchedule, error) {
	fixed := models.FixedSchedule{}
	if s.classes != nil {
		classes, err := s.classes.ListByUserID(ctx, userID)
		if err != nil {
			return fixed, err
		}
		fixed.Classes = classes
	}
	if s.blocks != nil {
		blocks, err := s.blocks.ListByUserID(ctx, userID)
		if err != nil {
			return fixed, err
		}
		fixed.RegularBlocks = blocks
	}
	if record != nil {
		if len(record.Routines) > 0 {
			if err := json.Unmarshal(record.Routines, &fixed.Routines); err != nil {
				s.logger.Warn("ignoring malformed stored routines", zap.Error(err))
			}
		}
		if len(record.Meals) > 0 {
			if err := json.Unmarshal(record.Meals, &fixed.Meals); err != nil {
				s.logger.Warn("ignoring malformed stored meals", zap.Error(err))
			}
		}
	}
	return fixed, nil
}

// decodePreferences flattens a stored row into the engine type.
func decodePreferences(record *models.PreferenceRecord) models.Preferences {
	prefs := models.Preferences{
		WakeTime:        record.WakeTime,
		SleepTime:       record.SleepTime,
		MinFreeHours:    record.MinFreeHours,
		BreakFrequency:  record.BreakFrequency,
		BreakDuration:   record.BreakDuration,
		IncludeWeekends: record.IncludeWeekends,
	}
	if record.FocusPeriod != nil {
		prefs.FocusPeriod = *record.FocusPeriod
	}
	if len(record.PreferredPeriods) > 0 {
		_ = json.Unmarshal(record.PreferredPeriods, &prefs.PreferredPeriods)
	}
	return prefs
}

// snapshotCacheKey derives a stable key from the run input. Equal snapshots
// hit the same cache entry regardless of who submits them.
func snapshotCacheKey(snapshot models.PlanSnapshot, useOracle bool) string {
	doc, err := json.Marshal(snapshot)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(doc)
	suffix := "rules"
	if useOracle {
		suffix = "oracle"
	}
	return "planner:schedule:" + hex.EncodeToString(sum[:]) + ":" + suffix
}
