package models

import "time"

// PlanSnapshot is the immutable input to one scheduling run. The engine never
// mutates it and never consults the wall clock beyond StartDate, so re-running
// on the same snapshot yields an identical schedule.
type PlanSnapshot struct {
	StartDate   time.Time     `json:"startDate"`
	Preferences Preferences   `json:"preferences"`
	Fixed       FixedSchedule `json:"fixedSchedule"`
	Workload    Workload      `json:"academicTasks"`
}
