package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
	"github.com/danieltanurhan/study-planner-api/pkg/export"
	"github.com/danieltanurhan/study-planner-api/pkg/jobs"
	"github.com/danieltanurhan/study-planner-api/pkg/storage"
)

const (
	exportStatusQueued = "queued"
	exportStatusDone   = "done"
	exportStatusFailed = "failed"
)

type exportScheduleReader interface {
	FindByID(ctx context.Context, userID, id string) (*models.ScheduleRecord, error)
}

type exportJobState struct {
	view    dto.ExportJobView
	relPath string
	userID  string
}

// ExportService renders persisted schedules to CSV or PDF asynchronously and
// hands out signed download tokens for the results.
type ExportService struct {
	schedules exportScheduleReader
	storage   *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	logger    *zap.Logger

	mu       sync.RWMutex
	jobsByID map[string]*exportJobState
}

// ExportServiceParams bundles the service dependencies.
type ExportServiceParams struct {
	Schedules   exportScheduleReader
	Storage     *storage.LocalStorage
	Signer      *storage.SignedURLSigner
	Concurrency int
	Retries     int
	Logger      *zap.Logger
}

// NewExportService wires the export pipeline. Call Start before enqueueing.
func NewExportService(p ExportServiceParams) *ExportService {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		schedules: p.Schedules,
		storage:   p.Storage,
		signer:    p.Signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		jobsByID:  make(map[string]*exportJobState),
	}
	s.queue = jobs.NewQueue("schedule-exports", s.handleJob, jobs.QueueConfig{
		Workers:    p.Concurrency,
		MaxRetries: p.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

type exportPayload struct {
	JobID      string
	UserID     string
	ScheduleID string
	Format     string
}

// Enqueue verifies the schedule exists and queues the export.
func (s *ExportService) Enqueue(ctx context.Context, userID, scheduleID string, req dto.CreateExportRequest) (*dto.ExportJobView, error) {
	format := strings.ToLower(req.Format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	if _, err := s.schedules.FindByID(ctx, userID, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	jobID := uuid.NewString()
	state := &exportJobState{
		userID: userID,
		view: dto.ExportJobView{
			JobID:      jobID,
			ScheduleID: scheduleID,
			Format:     format,
			Status:     exportStatusQueued,
			CreatedAt:  time.Now().UTC(),
		},
	}
	s.mu.Lock()
	s.jobsByID[jobID] = state
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "schedule-export",
		Payload: exportPayload{JobID: jobID, UserID: userID, ScheduleID: scheduleID, Format: format},
	})
	if err != nil {
		s.setFailure(jobID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	view := state.view
	return &view, nil
}

// Status returns the current state of a queued export.
func (s *ExportService) Status(userID, jobID string) (*dto.ExportJobView, error) {
	s.mu.RLock()
	state, ok := s.jobsByID[jobID]
	s.mu.RUnlock()
	if !ok || state.userID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	view := state.view
	return &view, nil
}

// Resolve validates a signed token and opens the exported file.
func (s *ExportService) Resolve(token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}

	s.mu.RLock()
	state, ok := s.jobsByID[jobID]
	s.mu.RUnlock()
	if !ok || state.relPath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file missing")
	}
	return file, path.Base(relPath), nil
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	record, err := s.schedules.FindByID(ctx, payload.UserID, payload.ScheduleID)
	if err != nil {
		s.setFailure(payload.JobID, err)
		return err
	}

	var blocks []models.ScheduleBlock
	if err := json.Unmarshal(record.Blocks, &blocks); err != nil {
		s.setFailure(payload.JobID, err)
		return err
	}

	dataset := scheduleDataset(blocks)
	var rendered []byte
	switch payload.Format {
	case "csv":
		rendered, err = s.csv.Render(dataset)
	case "pdf":
		title := fmt.Sprintf("Weekly Plan %s - %s",
			record.StartDate.Format(models.DateFormat), record.EndDate.Format(models.DateFormat))
		rendered, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %q", payload.Format)
	}
	if err != nil {
		s.setFailure(payload.JobID, err)
		return err
	}

	relPath := path.Join(payload.UserID, fmt.Sprintf("%s.%s", payload.JobID, payload.Format))
	if _, err := s.storage.Save(relPath, rendered); err != nil {
		s.setFailure(payload.JobID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(payload.JobID, relPath)
	if err != nil {
		s.setFailure(payload.JobID, err)
		return err
	}

	s.mu.Lock()
	if state, ok := s.jobsByID[payload.JobID]; ok {
		state.relPath = relPath
		state.view.Status = exportStatusDone
		state.view.DownloadURL = "/api/v1/exports/" + token
		state.view.ExpiresAt = &expiresAt
		state.view.Error = ""
	}
	s.mu.Unlock()
	return nil
}

func (s *ExportService) setFailure(jobID string, err error) {
	s.mu.Lock()
	if state, ok := s.jobsByID[jobID]; ok {
		state.view.Status = exportStatusFailed
		state.view.Error = err.Error()
	}
	s.mu.Unlock()
}

// scheduleDataset flattens blocks into the tabular export shape.
func scheduleDataset(blocks []models.ScheduleBlock) export.Dataset {
	headers := []string{"Date", "Start", "End", "Block", "Type", "Tasks"}
	rows := make([]map[string]string, 0, len(blocks))
	for _, b := range blocks {
		tasks := make([]string, 0, len(b.ScheduledTasks))
		for _, t := range b.ScheduledTasks {
			tasks = append(tasks, fmt.Sprintf("%s (%dm)", t.Name, t.Duration))
		}
		rows = append(rows, map[string]string{
			"Date":  b.Date,
			"Start": b.StartTime,
			"End":   b.EndTime,
			"Block": b.Name,
			"Type":  string(b.Type),
			"Tasks": strings.Join(tasks, "; "),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
