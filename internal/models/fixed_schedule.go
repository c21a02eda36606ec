package models

import "time"

// BlockKind discriminates the immovable commitments collected per day.
type BlockKind string

const (
	BlockKindClass     BlockKind = "class"
	BlockKindRoutine   BlockKind = "routine"
	BlockKindMeal      BlockKind = "meal"
	BlockKindRecurring BlockKind = "recurring"
)

// FixedBlock is one immovable interval on a given calendar date. Derived fresh
// from preferences each run and read-only to the engine.
type FixedBlock struct {
	Name     string    `json:"name"`
	Kind     BlockKind `json:"kind"`
	Date     string    `json:"date"`
	Interval Interval  `json:"interval"`
}

// ClassBlock is a weekly class occurrence stored per weekday.
type ClassBlock struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	DayOfWeek int       `db:"day_of_week" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Location  *string   `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegularBlock is a recurring non-class commitment (work, gym, clubs).
type RegularBlock struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	BlockType string    `db:"block_type" json:"type"`
	DayOfWeek int       `db:"day_of_week" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoutineActivity is one sequential step of a morning or evening routine.
type RoutineActivity struct {
	Name     string `json:"name" validate:"required"`
	Duration int    `json:"duration" validate:"required,min=1,max=240"`
}

// Routines groups the wake-up and wind-down activity chains.
type Routines struct {
	MorningRoutine      []RoutineActivity `json:"morningRoutine"`
	EveningRoutineStart string            `json:"eveningRoutineStart" validate:"omitempty,datetime=15:04"`
	EveningRoutine      []RoutineActivity `json:"eveningRoutine"`
}

// MealDurations holds per-meal lengths in minutes; zero falls back to the
// configured default.
type MealDurations struct {
	Breakfast int `json:"breakfast" validate:"omitempty,min=5,max=180"`
	Lunch     int `json:"lunch" validate:"omitempty,min=5,max=180"`
	Dinner    int `json:"dinner" validate:"omitempty,min=5,max=180"`
}

// Meals fixes the three daily meal start times.
type Meals struct {
	Breakfast string        `json:"breakfast" validate:"omitempty,datetime=15:04"`
	Lunch     string        `json:"lunch" validate:"omitempty,datetime=15:04"`
	Dinner    string        `json:"dinner" validate:"omitempty,datetime=15:04"`
	Durations MealDurations `json:"durations"`
}

// FixedSchedule is the immutable per-run snapshot of every standing commitment.
type FixedSchedule struct {
	Classes       []ClassBlock   `json:"classes"`
	RegularBlocks []RegularBlock `json:"regularBlocks"`
	Routines      Routines       `json:"routines"`
	Meals         Meals          `json:"meals"`
}
