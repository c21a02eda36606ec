package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type mockPlannerCache struct {
	store map[string][]byte
	sets  int
}

func newMockPlannerCache() *mockPlannerCache {
	return &mockPlannerCache{store: make(map[string][]byte)}
}

func (m *mockPlannerCache) Get(ctx context.Context, key string, dest any) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockPlannerCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	m.sets++
	return nil
}

type failingAllocator struct{}

func (failingAllocator) Name() string { return "oracle" }

func (failingAllocator) Plan(ctx context.Context, snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (*models.Schedule, []models.UnmetTask, error) {
	return nil, nil, errors.New("oracle unavailable")
}

type stubOracle struct {
	schedule *models.Schedule
}

func (s stubOracle) Name() string { return "oracle" }

func (s stubOracle) Plan(ctx context.Context, snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (*models.Schedule, []models.UnmetTask, error) {
	return s.schedule, nil, nil
}

func inlineGenerateRequest() dto.GenerateScheduleRequest {
	return dto.GenerateScheduleRequest{
		StartDate:   "2026-01-05",
		Preferences: &models.Preferences{PreferredPeriods: []string{"morning"}},
		Fixed:       &models.FixedSchedule{},
		Workload: &models.Workload{
			Assignments: []models.Assignment{
				{Name: "Essay", DueDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), EstimatedMinutes: 60},
			},
		},
	}
}

func TestPlannerServiceGenerate(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	result, err := svc.Generate(context.Background(), "u1", inlineGenerateRequest())
	require.NoError(t, err)
	assert.Equal(t, "rules", result.Allocator)
	assert.False(t, result.FellBack)
	assert.False(t, result.Cached)
	assert.Empty(t, result.UnmetTasks)
	require.NotNil(t, result.Schedule)

	var foundStudy bool
	for _, b := range result.Schedule.Blocks {
		if b.Type == models.BlockTypeStudy {
			foundStudy = true
			assert.Equal(t, "Study: Essay", b.Name)
		}
	}
	assert.True(t, foundStudy)
}

func TestPlannerServiceGenerateInvalidStartDate(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	req.StartDate = "05-01-2026"
	_, err := svc.Generate(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceGenerateEmptyHorizon(t *testing.T) {
	cfg := testPlannerConfig()
	cfg.HorizonDays = 1
	svc := NewPlannerService(PlannerServiceParams{Config: cfg, Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	// 2026-01-10 is a Saturday; with a one day horizon and weekends
	// excluded no plannable day remains.
	req.StartDate = "2026-01-10"
	req.Workload = &models.Workload{}
	_, err := svc.Generate(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInfeasibleWorkload.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceOracleFallback(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{
		Config: testPlannerConfig(),
		Oracle: failingAllocator{},
		Logger: zap.NewNop(),
	})

	req := inlineGenerateRequest()
	req.UseOracle = true
	result, err := svc.Generate(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.True(t, result.FellBack)
	assert.Equal(t, "rules", result.Allocator)
}

func TestPlannerServiceRejectsOracleBlockOverClass(t *testing.T) {
	oracle := stubOracle{schedule: &models.Schedule{Blocks: []models.ScheduleBlock{
		{
			Name: "Study: Essay", Date: "2026-01-05", StartTime: "10:30", EndTime: "11:00",
			Type:           models.BlockTypeStudy,
			ScheduledTasks: []models.ScheduledTask{{Type: models.TaskTypeAssignment, Name: "Essay", Duration: 30}},
		},
	}}}
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Oracle: oracle, Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	req.UseOracle = true
	req.Fixed = &models.FixedSchedule{Classes: []models.ClassBlock{
		{Name: "Algorithms", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:30"},
	}}
	_, err := svc.Generate(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOverlapDetected.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceRejectsOracleBlockOutsideAwakeSpan(t *testing.T) {
	oracle := stubOracle{schedule: &models.Schedule{Blocks: []models.ScheduleBlock{
		{
			Name: "Study: Essay", Date: "2026-01-05", StartTime: "06:00", EndTime: "06:45",
			Type:           models.BlockTypeStudy,
			ScheduledTasks: []models.ScheduledTask{{Type: models.TaskTypeAssignment, Name: "Essay", Duration: 45}},
		},
	}}}
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Oracle: oracle, Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	req.UseOracle = true
	_, err := svc.Generate(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOverlapDetected.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceGenerateClearsFixedBlocks(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	req.Fixed = &models.FixedSchedule{Classes: []models.ClassBlock{
		{Name: "Algorithms", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30"},
	}}
	result, err := svc.Generate(context.Background(), "u1", req)
	require.NoError(t, err)
	require.NotNil(t, result.Schedule)

	snapshot, err := svc.buildSnapshot(context.Background(), "u1", req.StartDate, req.Preferences, req.Fixed, req.Workload)
	require.NoError(t, err)
	dates, _ := svc.finder.Find(snapshot)
	fixed := svc.fixedTimedBlocks(snapshot, dates, result.Schedule.Blocks)
	require.NotEmpty(t, fixed)

	wake, sleep := svc.collector.AwakeSpan(snapshot.Preferences)
	assert.Empty(t, NewOverlapValidator().CheckAgainstFixed(result.Schedule.Blocks, fixed, wake, sleep))
}

func TestPlannerServiceGenerateReportsCoverageErrors(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	req := inlineGenerateRequest()
	// A half-hour awake span leaves no window long enough for a study
	// session, so the assignment cannot be covered.
	req.Preferences = &models.Preferences{WakeTime: "07:00", SleepTime: "07:30"}
	result, err := svc.Generate(context.Background(), "u1", req)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Errors)
	require.NotEmpty(t, result.UnmetTasks)
	assert.Equal(t, "Essay", result.UnmetTasks[0].Name)
	assert.Empty(t, studyBlocks(result.Schedule))
}

func TestPlannerServiceCachesResults(t *testing.T) {
	cache := newMockPlannerCache()
	svc := NewPlannerService(PlannerServiceParams{
		Config: testPlannerConfig(),
		Cache:  cache,
		Logger: zap.NewNop(),
	})

	first, err := svc.Generate(context.Background(), "u1", inlineGenerateRequest())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Generate(context.Background(), "u1", inlineGenerateRequest())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, cache.sets, "cache hit must not rewrite the entry")
	assert.Equal(t, first.Schedule, second.Schedule)
}

func TestPlannerServiceWindows(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	result, err := svc.Windows(context.Background(), "u1", dto.WindowsRequest{
		StartDate:   "2026-01-05",
		Preferences: &models.Preferences{},
		Fixed:       &models.FixedSchedule{},
		Workload:    &models.Workload{},
	})
	require.NoError(t, err)
	assert.Len(t, result.Dates, 5)
	require.NotEmpty(t, result.Windows)
	for _, w := range result.Windows {
		assert.Less(t, w.Start, w.End)
		assert.Contains(t, result.Dates, w.Date)
	}
}

func TestPlannerServiceValidateBlocks(t *testing.T) {
	svc := NewPlannerService(PlannerServiceParams{Config: testPlannerConfig(), Logger: zap.NewNop()})

	clean := svc.ValidateBlocks(dto.ValidateBlocksRequest{Blocks: []models.ScheduleBlock{
		{Name: "A", Date: "2026-01-05", StartTime: "09:00", EndTime: "10:00", Type: models.BlockTypeFree},
		{Name: "B", Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00", Type: models.BlockTypeFree},
	}})
	assert.True(t, clean.Valid)
	assert.Empty(t, clean.Overlaps)

	dirty := svc.ValidateBlocks(dto.ValidateBlocksRequest{Blocks: []models.ScheduleBlock{
		{Name: "A", Date: "2026-01-05", StartTime: "09:00", EndTime: "10:00", Type: models.BlockTypeFree},
		{Name: "B", Date: "2026-01-05", StartTime: "09:30", EndTime: "11:00", Type: models.BlockTypeFree},
	}})
	assert.False(t, dirty.Valid)
	assert.Len(t, dirty.Overlaps, 1)
}
