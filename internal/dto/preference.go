package dto

import "github.com/danieltanurhan/study-planner-api/internal/models"

// UpdatePreferencesRequest replaces the caller's planning profile. All fields
// are optional; empty ones keep the planner defaults.
type UpdatePreferencesRequest struct {
	WakeTime         string           `json:"wakeTime" validate:"omitempty,datetime=15:04"`
	SleepTime        string           `json:"sleepTime" validate:"omitempty,datetime=15:04"`
	PreferredPeriods []string         `json:"preferredHours" validate:"omitempty,dive,oneof=morning afternoon evening"`
	MinFreeHours     float64          `json:"minFreeTime" validate:"omitempty,min=0,max=12"`
	BreakFrequency   int              `json:"breakFrequency" validate:"omitempty,min=15,max=240"`
	BreakDuration    int              `json:"breakDuration" validate:"omitempty,min=5,max=60"`
	IncludeWeekends  bool             `json:"includeWeekends"`
	FocusPeriod      string           `json:"focusPeriod" validate:"omitempty,oneof=morning afternoon evening"`
	Routines         *models.Routines `json:"routines,omitempty"`
	Meals            *models.Meals    `json:"meals,omitempty"`
}

// PreferencesView is the decoded profile returned to the caller.
type PreferencesView struct {
	Preferences models.Preferences `json:"preferences"`
	Routines    models.Routines    `json:"routines"`
	Meals       models.Meals       `json:"meals"`
}
