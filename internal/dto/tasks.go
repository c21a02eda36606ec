package dto

// CreateAssignmentRequest registers a due-dated piece of coursework.
type CreateAssignmentRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	Course           string `json:"course" validate:"required,max=100"`
	Topic            string `json:"topic" validate:"omitempty,max=200"`
	DueDate          string `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedMinutes int    `json:"estimatedMinutes" validate:"omitempty,min=30,max=1440"`
	Comment          string `json:"comment" validate:"omitempty,max=500"`
}

// UpdateAssignmentRequest mutates an assignment; nil fields are untouched.
type UpdateAssignmentRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=200"`
	Course           *string `json:"course" validate:"omitempty,max=100"`
	Topic            *string `json:"topic" validate:"omitempty,max=200"`
	DueDate          *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Priority         *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedMinutes *int    `json:"estimatedMinutes" validate:"omitempty,min=30,max=1440"`
	Comment          *string `json:"comment" validate:"omitempty,max=500"`
	Completed        *bool   `json:"completed"`
}

// CreateExamRequest registers an upcoming exam.
type CreateExamRequest struct {
	Course     string `json:"course" validate:"required,max=100"`
	Topic      string `json:"topic" validate:"omitempty,max=200"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=10"`
	Comment    string `json:"comment" validate:"omitempty,max=500"`
}

// UpdateExamRequest mutates an exam; nil fields are untouched.
type UpdateExamRequest struct {
	Course     *string `json:"course" validate:"omitempty,max=100"`
	Topic      *string `json:"topic" validate:"omitempty,max=200"`
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Difficulty *int    `json:"difficulty" validate:"omitempty,min=1,max=10"`
	Comment    *string `json:"comment" validate:"omitempty,max=500"`
}

// ListTasksQuery filters workload listings.
type ListTasksQuery struct {
	IncludeCompleted bool   `form:"include_completed"`
	Course           string `form:"course"`
	Page             int    `form:"page"`
	PageSize         int    `form:"page_size"`
}
