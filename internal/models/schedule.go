package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// BlockType distinguishes generated block flavours.
type BlockType string

const (
	BlockTypeStudy BlockType = "study"
	BlockTypeFree  BlockType = "free"
)

// ScheduledTask binds one workload item (or a named subdivision) to a duration
// within a study block. Duration is bounded to 30-90 minutes by policy.
type ScheduledTask struct {
	Type     TaskType `json:"type"`
	Name     string   `json:"name"`
	Duration int      `json:"duration"`
	Comment  string   `json:"comment,omitempty"`
}

// ScheduleBlock is one generated block on the calendar. Times are zero-padded
// 24-hour strings, dates are YYYY-MM-DD.
type ScheduleBlock struct {
	Name           string          `json:"name"`
	Date           string          `json:"date"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	Type           BlockType       `json:"type"`
	ScheduledTasks []ScheduledTask `json:"scheduledTasks"`
}

// Schedule is the full ordered block sequence over the planning horizon.
type Schedule struct {
	Blocks []ScheduleBlock `json:"blocks"`
	Notes  string          `json:"notes,omitempty"`
}

// Window is a contiguous free gap on one date, consumed by the allocator and
// never persisted.
type Window struct {
	Date     string   `json:"date"`
	Interval Interval `json:"interval"`
	Period   Period   `json:"period"`
}

// Overlap reports one conflicting block pair on a date.
type Overlap struct {
	BlockA string `json:"blockA"`
	BlockB string `json:"blockB"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// UnmetTask names a workload item whose required session count could not be
// met within the horizon.
type UnmetTask struct {
	Type      TaskType `json:"type"`
	Name      string   `json:"name"`
	Required  int      `json:"required"`
	Scheduled int      `json:"scheduled"`
	Deadline  string   `json:"deadline"`
}

// ValidationResult gathers coverage errors and soft warnings.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ScheduleStatus tracks the lifecycle of a persisted schedule.
type ScheduleStatus string

const (
	ScheduleStatusDraft    ScheduleStatus = "DRAFT"
	ScheduleStatusAccepted ScheduleStatus = "ACCEPTED"
)

// ScheduleRecord is a persisted, accepted schedule.
type ScheduleRecord struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	StartDate time.Time      `db:"start_date" json:"start_date"`
	EndDate   time.Time      `db:"end_date" json:"end_date"`
	Status    ScheduleStatus `db:"status" json:"status"`
	Allocator string         `db:"allocator" json:"allocator"`
	Notes     string         `db:"notes" json:"notes,omitempty"`
	Blocks    types.JSONText `db:"blocks" json:"blocks"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
