package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

func window(date, start, end string) models.Window {
	s, _ := models.ParseClock(start)
	e, _ := models.ParseClock(end)
	return models.Window{
		Date:     date,
		Interval: models.Interval{Start: s, End: e},
		Period:   models.PeriodOf(s),
	}
}

func studyBlocks(schedule *models.Schedule) []models.ScheduleBlock {
	var out []models.ScheduleBlock
	for _, b := range schedule.Blocks {
		if b.Type == models.BlockTypeStudy {
			out = append(out, b)
		}
	}
	return out
}

func TestPlanNoWorkloadAllFree(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "12:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), models.PlanSnapshot{StartDate: monday}, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet)

	total := 0
	for _, b := range schedule.Blocks {
		require.Equal(t, models.BlockTypeFree, b.Type)
		s, _ := models.ParseClock(b.StartTime)
		e, _ := models.ParseClock(b.EndTime)
		total += int(e - s)
	}
	assert.Equal(t, 180, total, "every window minute becomes free time")
}

func TestPlanPlacesAssignmentBeforeDueDate(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	due := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate: monday,
		Workload: models.Workload{
			Assignments: []models.Assignment{{Name: "Essay", DueDate: due, EstimatedMinutes: 60}},
		},
	}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "12:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet)

	study := studyBlocks(schedule)
	require.Len(t, study, 1)
	assert.Equal(t, "Study: Essay", study[0].Name)
	assert.LessOrEqual(t, study[0].Date, "2026-01-09")
	require.Len(t, study[0].ScheduledTasks, 1)
	assert.Equal(t, 60, study[0].ScheduledTasks[0].Duration)
}

func TestPlanFreeTimeCarvedFromNonPreferredWindows(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	snapshot := models.PlanSnapshot{StartDate: monday}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {
			window("2026-01-05", "09:00", "09:30"),
			window("2026-01-05", "10:00", "13:00"),
		},
	}

	schedule, _, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)

	// The 30 minute window is below the study session floor, so it can only
	// hold free time.
	var tiny *models.ScheduleBlock
	for i := range schedule.Blocks {
		if schedule.Blocks[i].StartTime == "09:00" {
			tiny = &schedule.Blocks[i]
		}
	}
	require.NotNil(t, tiny)
	assert.Equal(t, models.BlockTypeFree, tiny.Type)
	assert.Equal(t, "09:30", tiny.EndTime)
}

func TestPlanExamSessionsOnDistinctDaysBeforeExam(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	examDate := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Exams: []models.Exam{{Course: "Math", Topic: "Calculus", Date: examDate, Difficulty: 5}},
		},
	}
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-08"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "10:00")},
		"2026-01-06": {window("2026-01-06", "09:00", "10:00")},
		"2026-01-08": {window("2026-01-08", "09:00", "10:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet)

	study := studyBlocks(schedule)
	require.Len(t, study, 2)
	seen := make(map[string]bool)
	for _, b := range study {
		assert.Less(t, b.Date, "2026-01-08", "exam day itself is off limits")
		assert.False(t, seen[b.Date], "sessions must land on distinct days")
		seen[b.Date] = true
	}
}

func TestPlanHardExamGetsThreeLongSessions(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	examDate := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Exams: []models.Exam{{Course: "Physics", Date: examDate, Difficulty: 8}},
		},
	}
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "11:00")},
		"2026-01-06": {window("2026-01-06", "09:00", "11:00")},
		"2026-01-07": {window("2026-01-07", "09:00", "11:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet)

	study := studyBlocks(schedule)
	require.Len(t, study, 3)
	for _, b := range study {
		require.Len(t, b.ScheduledTasks, 1)
		assert.Equal(t, 90, b.ScheduledTasks[0].Duration)
	}
}

func TestPlanExamSessionsShareDayWhenHorizonTight(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	examDate := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Exams: []models.Exam{{Course: "Mechanics", Date: examDate, Difficulty: 5}},
		},
	}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {
			window("2026-01-05", "09:00", "12:00"),
			window("2026-01-05", "14:00", "17:00"),
		},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet, "ample same-day capacity must not drop a session")

	study := studyBlocks(schedule)
	require.Len(t, study, 2)
	for _, b := range study {
		assert.Equal(t, "2026-01-05", b.Date)
	}
}

func TestPlanReportsUnmetExamSessions(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	examDate := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Exams: []models.Exam{{Course: "Math", Date: examDate, Difficulty: 5}},
		},
	}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "10:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)

	require.Len(t, unmet, 1)
	assert.Equal(t, models.TaskTypeExam, unmet[0].Type)
	assert.Equal(t, 2, unmet[0].Required)
	assert.Equal(t, 1, unmet[0].Scheduled)
	assert.Contains(t, schedule.Notes, "could not be fully scheduled")
}

func TestPlanEarlierDueDateWinsContention(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Assignments: []models.Assignment{
				{Name: "Later", DueDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), EstimatedMinutes: 60},
				{Name: "Urgent", DueDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), EstimatedMinutes: 60},
			},
		},
	}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "10:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)

	study := studyBlocks(schedule)
	require.Len(t, study, 1)
	assert.Equal(t, "Study: Urgent", study[0].Name)
	require.Len(t, unmet, 1)
	assert.Equal(t, "Later", unmet[0].Name)
}

func TestPlanSplitsLongAssignmentIntoSessions(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	due := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Assignments: []models.Assignment{{Name: "Project", DueDate: due, EstimatedMinutes: 120}},
		},
	}
	dates := []string{"2026-01-05"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "12:00")},
	}

	schedule, unmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	assert.Empty(t, unmet)

	study := studyBlocks(schedule)
	require.Len(t, study, 2)
	total := 0
	for _, b := range study {
		require.Len(t, b.ScheduledTasks, 1)
		d := b.ScheduledTasks[0].Duration
		assert.GreaterOrEqual(t, d, 30)
		assert.LessOrEqual(t, d, 90)
		total += d
	}
	assert.Equal(t, 120, total)
}

func TestPlanDeterministic(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	snapshot := models.PlanSnapshot{
		StartDate:   monday,
		Preferences: models.Preferences{PreferredPeriods: []string{"morning"}},
		Workload: models.Workload{
			Assignments: []models.Assignment{
				{Name: "Essay", DueDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), EstimatedMinutes: 90},
			},
			Exams: []models.Exam{
				{Course: "Math", Date: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), Difficulty: 6},
			},
		},
	}
	dates := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "12:00"), window("2026-01-05", "14:00", "16:00")},
		"2026-01-06": {window("2026-01-06", "09:00", "12:00")},
		"2026-01-07": {window("2026-01-07", "09:00", "12:00")},
	}

	first, firstUnmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)
	second, secondUnmet, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstUnmet, secondUnmet)
}

func TestPlanBlocksSortedAndNonOverlapping(t *testing.T) {
	a := NewRuleBasedAllocator(testPlannerConfig(), zap.NewNop())
	snapshot := models.PlanSnapshot{
		StartDate: monday,
		Workload: models.Workload{
			Assignments: []models.Assignment{
				{Name: "Essay", DueDate: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), EstimatedMinutes: 60},
			},
		},
	}
	dates := []string{"2026-01-05", "2026-01-06"}
	windows := map[string][]models.Window{
		"2026-01-05": {window("2026-01-05", "09:00", "12:00")},
		"2026-01-06": {window("2026-01-06", "14:00", "17:00")},
	}

	schedule, _, err := a.Plan(context.Background(), snapshot, dates, windows)
	require.NoError(t, err)

	for i := 1; i < len(schedule.Blocks); i++ {
		prev, cur := schedule.Blocks[i-1], schedule.Blocks[i]
		if prev.Date == cur.Date {
			assert.LessOrEqual(t, prev.EndTime, cur.StartTime)
		} else {
			assert.Less(t, prev.Date, cur.Date)
		}
	}
	assert.Empty(t, NewOverlapValidator().CheckSchedule(schedule.Blocks))
}
