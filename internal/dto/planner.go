package dto

import "github.com/danieltanurhan/study-planner-api/internal/models"

// GenerateScheduleRequest starts a planning run. Inline sections override the
// persisted profile for this run only, which keeps the engine reproducible
// from the request body alone.
type GenerateScheduleRequest struct {
	StartDate   string                `json:"startDate" validate:"required,datetime=2006-01-02"`
	UseOracle   bool                  `json:"useOracle"`
	Preferences *models.Preferences   `json:"preferences,omitempty"`
	Fixed       *models.FixedSchedule `json:"fixedSchedule,omitempty"`
	Workload    *models.Workload      `json:"academicTasks,omitempty"`
}

// GenerateScheduleResult is the planning outcome: the schedule plus every
// diagnostic the run produced.
type GenerateScheduleResult struct {
	Schedule   *models.Schedule   `json:"schedule"`
	Errors     []string           `json:"errors,omitempty"`
	Warnings   []string           `json:"warnings"`
	UnmetTasks []models.UnmetTask `json:"unmetTasks,omitempty"`
	Allocator  string             `json:"allocator"`
	FellBack   bool               `json:"fellBack,omitempty"`
	Cached     bool               `json:"cached,omitempty"`
}

// WindowsRequest previews availability without allocating anything.
type WindowsRequest struct {
	StartDate   string                `json:"startDate" validate:"required,datetime=2006-01-02"`
	Preferences *models.Preferences   `json:"preferences,omitempty"`
	Fixed       *models.FixedSchedule `json:"fixedSchedule,omitempty"`
	Workload    *models.Workload      `json:"academicTasks,omitempty"`
}

// WindowView is one availability window on the wire.
type WindowView struct {
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Period string `json:"period"`
}

// WindowsResult lists availability windows in horizon order.
type WindowsResult struct {
	Dates   []string     `json:"dates"`
	Windows []WindowView `json:"windows"`
}

// ValidateBlocksRequest checks an externally produced block set for overlaps.
type ValidateBlocksRequest struct {
	Blocks []models.ScheduleBlock `json:"blocks" validate:"required,min=1,dive"`
}

// ValidateBlocksResult reports overlap conflicts, empty when clean.
type ValidateBlocksResult struct {
	Valid    bool             `json:"valid"`
	Overlaps []models.Overlap `json:"overlaps,omitempty"`
}
