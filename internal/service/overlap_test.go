package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

func timed(name, date, start, end string) TimedBlock {
	s, _ := models.ParseClock(start)
	e, _ := models.ParseClock(end)
	return TimedBlock{Name: name, Date: date, Interval: models.Interval{Start: s, End: e}}
}

func TestOverlapCheckReportsConflictingPair(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.Check([]TimedBlock{
		timed("Class A", "2026-01-05", "09:00", "10:00"),
		timed("Class B", "2026-01-05", "09:30", "10:30"),
	})

	require.Len(t, overlaps, 1)
	assert.Equal(t, "Class A", overlaps[0].BlockA)
	assert.Equal(t, "Class B", overlaps[0].BlockB)
	assert.Equal(t, "2026-01-05", overlaps[0].Date)
	assert.Contains(t, overlaps[0].Reason, "overlaps with")
}

func TestOverlapCheckTouchingEndpointsAllowed(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.Check([]TimedBlock{
		timed("First", "2026-01-05", "09:00", "10:00"),
		timed("Second", "2026-01-05", "10:00", "11:00"),
	})
	assert.Empty(t, overlaps)
}

func TestOverlapCheckDifferentDatesNeverConflict(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.Check([]TimedBlock{
		timed("Monday", "2026-01-05", "09:00", "10:00"),
		timed("Tuesday", "2026-01-06", "09:00", "10:00"),
	})
	assert.Empty(t, overlaps)
}

func TestOverlapCheckEveryPairReported(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.Check([]TimedBlock{
		timed("A", "2026-01-05", "09:00", "12:00"),
		timed("B", "2026-01-05", "09:30", "10:30"),
		timed("C", "2026-01-05", "10:00", "11:00"),
	})
	// A-B, A-C and B-C all conflict.
	assert.Len(t, overlaps, 3)
}

func TestCheckScheduleFlagsMalformedTimes(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.CheckSchedule([]models.ScheduleBlock{
		{Name: "Broken", Date: "2026-01-05", StartTime: "9am", EndTime: "10:00", Type: models.BlockTypeFree},
		{Name: "Fine", Date: "2026-01-05", StartTime: "11:00", EndTime: "12:00", Type: models.BlockTypeFree},
	})

	require.Len(t, overlaps, 1)
	assert.Equal(t, "Broken", overlaps[0].BlockA)
	assert.Equal(t, "Broken", overlaps[0].BlockB)
	assert.Contains(t, overlaps[0].Reason, "invalid times")
}

func TestCheckScheduleCleanBlocks(t *testing.T) {
	v := NewOverlapValidator()

	overlaps := v.CheckSchedule([]models.ScheduleBlock{
		{Name: "Study: Math", Date: "2026-01-05", StartTime: "09:00", EndTime: "10:00", Type: models.BlockTypeStudy},
		{Name: "Free Time", Date: "2026-01-05", StartTime: "10:00", EndTime: "12:00", Type: models.BlockTypeFree},
	})
	assert.Empty(t, overlaps)
}
