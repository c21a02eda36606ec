package models

import "time"

// TaskType tags a workload item on the wire.
type TaskType string

const (
	TaskTypeAssignment TaskType = "assignment"
	TaskTypeExam       TaskType = "exam"
)

// Assignment is a due-dated piece of coursework needing at least one session.
type Assignment struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	Course           string    `db:"course" json:"course"`
	Topic            string    `db:"topic" json:"topic"`
	DueDate          time.Time `db:"due_date" json:"dueDate"`
	Priority         string    `db:"priority" json:"priority"`
	EstimatedMinutes int       `db:"estimated_minutes" json:"estimatedMinutes"`
	Comment          string    `db:"comment" json:"comment,omitempty"`
	Completed        bool      `db:"completed" json:"completed"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Exam is a dated test; preparation needs multiple sessions spread over days.
type Exam struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Course     string    `db:"course" json:"course"`
	Topic      string    `db:"topic" json:"topic"`
	Date       time.Time `db:"exam_date" json:"date"`
	Difficulty int       `db:"difficulty" json:"difficulty"`
	Comment    string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RequiredSessions returns the minimum study sessions an exam needs: two as a
// floor, three once difficulty reaches 8 on the 1-10 scale.
func (e Exam) RequiredSessions() int {
	if e.Difficulty >= 8 {
		return 3
	}
	return 2
}

// Label identifies the exam in diagnostics and task assignments.
func (e Exam) Label() string {
	if e.Topic != "" {
		return e.Topic
	}
	return e.Course
}

// Workload is the immutable set of unscheduled academic tasks for one run.
type Workload struct {
	Assignments []Assignment `json:"assignments"`
	Exams       []Exam       `json:"exams"`
}

// Empty reports whether there is nothing to study for.
func (w Workload) Empty() bool {
	return len(w.Assignments) == 0 && len(w.Exams) == 0
}

// LatestDeadline returns the furthest due/exam date, if any task exists.
func (w Workload) LatestDeadline() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, a := range w.Assignments {
		if !found || a.DueDate.After(latest) {
			latest = a.DueDate
			found = true
		}
	}
	for _, e := range w.Exams {
		if !found || e.Date.After(latest) {
			latest = e.Date
			found = true
		}
	}
	return latest, found
}
