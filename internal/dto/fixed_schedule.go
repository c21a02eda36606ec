package dto

// CreateClassRequest registers a weekly class occurrence.
type CreateClassRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	DayOfWeek int     `json:"day" validate:"min=0,max=6"`
	StartTime string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string  `json:"endTime" validate:"required,datetime=15:04"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
}

// UpdateClassRequest mutates a class; nil fields are untouched.
type UpdateClassRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	DayOfWeek *int    `json:"day" validate:"omitempty,min=0,max=6"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
}

// CreateRegularBlockRequest registers a recurring non-class commitment.
type CreateRegularBlockRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	BlockType string `json:"type" validate:"omitempty,max=50"`
	DayOfWeek int    `json:"day" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// UpdateRegularBlockRequest mutates a recurring block; nil fields are untouched.
type UpdateRegularBlockRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	BlockType *string `json:"type" validate:"omitempty,max=50"`
	DayOfWeek *int    `json:"day" validate:"omitempty,min=0,max=6"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}
