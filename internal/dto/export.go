package dto

import (
	"time"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

// CreateExportRequest queues an export of a persisted schedule.
type CreateExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobView reports the state of a queued export.
type ExportJobView struct {
	JobID       string     `json:"job_id"`
	ScheduleID  string     `json:"schedule_id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SaveScheduleRequest persists an accepted schedule.
type SaveScheduleRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Allocator string `json:"allocator" validate:"omitempty,oneof=rules oracle"`
	Notes     string `json:"notes" validate:"omitempty,max=1000"`

	Blocks []models.ScheduleBlock `json:"blocks" validate:"required,min=1,dive"`
}
