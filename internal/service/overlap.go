package service

import (
	"fmt"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

// TimedBlock is the minimal shape the overlap check needs; both fixed blocks
// and generated schedule blocks satisfy it after conversion.
type TimedBlock struct {
	Name     string
	Date     string
	Interval models.Interval
}

// OverlapValidator performs the pairwise half-open interval check per date.
type OverlapValidator struct{}

// NewOverlapValidator returns a stateless validator.
func NewOverlapValidator() *OverlapValidator {
	return &OverlapValidator{}
}

// Check reports every conflicting pair, grouping blocks by date first so the
// quadratic scan only runs within a single day.
func (v *OverlapValidator) Check(blocks []TimedBlock) []models.Overlap {
	byDate := make(map[string][]TimedBlock)
	order := make([]string, 0)
	for _, b := range blocks {
		if _, seen := byDate[b.Date]; !seen {
			order = append(order, b.Date)
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	var overlaps []models.Overlap
	for _, date := range order {
		day := byDate[date]
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if !day[i].Interval.Overlaps(day[j].Interval) {
					continue
				}
				overlaps = append(overlaps, models.Overlap{
					BlockA: day[i].Name,
					BlockB: day[j].Name,
					Date:   date,
					Reason: fmt.Sprintf("%q overlaps with %q on %s", day[i].Name, day[j].Name, date),
				})
			}
		}
	}
	return overlaps
}

// CheckSchedule converts generated blocks and runs the pairwise check.
// Blocks with unparsable times are reported as conflicts rather than skipped.
func (v *OverlapValidator) CheckSchedule(blocks []models.ScheduleBlock) []models.Overlap {
	timed := make([]TimedBlock, 0, len(blocks))
	var malformed []models.Overlap
	for _, b := range blocks {
		start, errS := models.ParseClock(b.StartTime)
		end, errE := models.ParseClock(b.EndTime)
		if errS != nil || errE != nil || start >= end {
			malformed = append(malformed, models.Overlap{
				BlockA: b.Name,
				BlockB: b.Name,
				Date:   b.Date,
				Reason: fmt.Sprintf("%q has invalid times %s-%s on %s", b.Name, b.StartTime, b.EndTime, b.Date),
			})
			continue
		}
		timed = append(timed, TimedBlock{
			Name:     b.Name,
			Date:     b.Date,
			Interval: models.Interval{Start: start, End: end},
		})
	}
	return append(malformed, v.Check(timed)...)
}

// CheckAgainstFixed runs the schedule check and additionally verifies every
// generated block against the day's fixed commitments and the awake span.
// Fixed blocks are not compared with each other here; their conflicts are
// caught when the commitment is edited.
func (v *OverlapValidator) CheckAgainstFixed(blocks []models.ScheduleBlock, fixed []TimedBlock, wake, sleep models.TimeOfDay) []models.Overlap {
	overlaps := v.CheckSchedule(blocks)

	fixedByDate := make(map[string][]TimedBlock, len(fixed))
	for _, f := range fixed {
		fixedByDate[f.Date] = append(fixedByDate[f.Date], f)
	}

	for _, b := range blocks {
		start, errS := models.ParseClock(b.StartTime)
		end, errE := models.ParseClock(b.EndTime)
		if errS != nil || errE != nil || start >= end {
			continue
		}
		if start < wake || end > sleep {
			overlaps = append(overlaps, models.Overlap{
				BlockA: b.Name,
				BlockB: b.Name,
				Date:   b.Date,
				Reason: fmt.Sprintf("%q (%s-%s) lies outside the awake span %s-%s on %s",
					b.Name, b.StartTime, b.EndTime, wake, sleep, b.Date),
			})
		}
		interval := models.Interval{Start: start, End: end}
		for _, f := range fixedByDate[b.Date] {
			if !interval.Overlaps(f.Interval) {
				continue
			}
			overlaps = append(overlaps, models.Overlap{
				BlockA: b.Name,
				BlockB: f.Name,
				Date:   b.Date,
				Reason: fmt.Sprintf("%q overlaps fixed block %q on %s", b.Name, f.Name, b.Date),
			})
		}
	}
	return overlaps
}
