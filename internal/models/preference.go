package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Preferences is the decoded per-user planning configuration consumed by the
// engine. Empty fields fall back to the documented planner defaults.
type Preferences struct {
	WakeTime         string   `json:"wakeTime" validate:"omitempty,datetime=15:04"`
	SleepTime        string   `json:"sleepTime" validate:"omitempty,datetime=15:04"`
	PreferredPeriods []string `json:"preferredHours" validate:"omitempty,dive,oneof=morning afternoon evening"`
	MinFreeHours     float64  `json:"minFreeTime" validate:"omitempty,min=0,max=12"`
	BreakFrequency   int      `json:"breakFrequency" validate:"omitempty,min=15,max=240"`
	BreakDuration    int      `json:"breakDuration" validate:"omitempty,min=5,max=60"`
	IncludeWeekends  bool     `json:"includeWeekends"`
	FocusPeriod      string   `json:"focusPeriod" validate:"omitempty,oneof=morning afternoon evening"`
}

// PreferenceRecord is the persisted row backing Preferences plus the JSON
// routine/meal configuration.
type PreferenceRecord struct {
	ID               string         `db:"id" json:"id"`
	UserID           string         `db:"user_id" json:"user_id"`
	WakeTime         string         `db:"wake_time" json:"wake_time"`
	SleepTime        string         `db:"sleep_time" json:"sleep_time"`
	PreferredPeriods types.JSONText `db:"preferred_periods" json:"preferred_periods"`
	MinFreeHours     float64        `db:"min_free_hours" json:"min_free_hours"`
	BreakFrequency   int            `db:"break_frequency" json:"break_frequency"`
	BreakDuration    int            `db:"break_duration" json:"break_duration"`
	IncludeWeekends  bool           `db:"include_weekends" json:"include_weekends"`
	FocusPeriod      *string        `db:"focus_period" json:"focus_period,omitempty"`
	Routines         types.JSONText `db:"routines" json:"routines"`
	Meals            types.JSONText `db:"meals" json:"meals"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
