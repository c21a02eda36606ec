package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/models"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

const oracleSystemPrompt = `You are a study planner. Given a student's availability windows, preferences and academic tasks, produce a schedule of study and free blocks. Only place blocks inside the given windows. Study sessions run 30-90 minutes. Assignments need at least one session before their due date; exams need their required sessions on distinct days strictly before the exam date. Respect the free-time goal using non-preferred periods first.`

// OracleAllocator delegates planning to a chat-completions endpoint with a
// strict JSON schema response. Failures are wrapped so the caller can fall
// back to the rule-based planner.
type OracleAllocator struct {
	cfg        config.OracleConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOracleAllocator builds the remote planner client.
func NewOracleAllocator(cfg config.OracleConfig, logger *zap.Logger) *OracleAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &OracleAllocator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name identifies the planner in schedule metadata.
func (o *OracleAllocator) Name() string { return "oracle" }

func oracleErr(err error) *appErrors.Error {
	base := appErrors.ErrOracleFailure
	return appErrors.Wrap(err, base.Code, base.Status, base.Message)
}

type oracleChatRequest struct {
	Model          string          `json:"model"`
	Messages       []oracleMessage `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format"`
}

type oracleMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oracleChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type oracleSchedulePayload struct {
	Schedule models.Schedule `json:"schedule"`
}

// Plan sends the planning problem to the remote model and decodes the
// structured schedule it returns. The context bounds the whole exchange.
func (o *OracleAllocator) Plan(ctx context.Context, snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (*models.Schedule, []models.UnmetTask, error) {
	if !o.cfg.Enabled || o.cfg.APIKey == "" {
		return nil, nil, oracleErr(fmt.Errorf("oracle allocator disabled"))
	}

	userPrompt, err := buildOraclePrompt(snapshot, dates, windows)
	if err != nil {
		return nil, nil, oracleErr(err)
	}

	body, err := json.Marshal(oracleChatRequest{
		Model: o.cfg.Model,
		Messages: []oracleMessage{
			{Role: "system", Content: oracleSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: scheduleResponseFormat,
	})
	if err != nil {
		return nil, nil, oracleErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, nil, oracleErr(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, nil, oracleErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, oracleErr(err)
	}
	if resp.StatusCode != http.StatusOK {
		o.logger.Warn("oracle request rejected",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, nil, oracleErr(fmt.Errorf("oracle returned status %d", resp.StatusCode))
	}

	var chat oracleChatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, nil, oracleErr(err)
	}
	if chat.Error != nil {
		return nil, nil, oracleErr(fmt.Errorf("oracle error: %s", chat.Error.Message))
	}
	if len(chat.Choices) == 0 {
		return nil, nil, oracleErr(fmt.Errorf("oracle returned no choices"))
	}

	var payload oracleSchedulePayload
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &payload); err != nil {
		return nil, nil, oracleErr(fmt.Errorf("oracle returned malformed schedule: %w", err))
	}
	if err := checkOracleSchedule(&payload.Schedule); err != nil {
		return nil, nil, oracleErr(err)
	}

	sortBlocks(payload.Schedule.Blocks)
	return &payload.Schedule, nil, nil
}

// buildOraclePrompt serialises the planning inputs into one JSON document.
func buildOraclePrompt(snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (string, error) {
	type promptWindow struct {
		Date   string `json:"date"`
		Start  string `json:"start"`
		End    string `json:"end"`
		Period string `json:"period"`
	}
	flat := make([]promptWindow, 0, len(dates)*4)
	for _, date := range dates {
		for _, w := range windows[date] {
			flat = append(flat, promptWindow{
				Date:   date,
				Start:  w.Interval.Start.String(),
				End:    w.Interval.End.String(),
				Period: string(w.Period),
			})
		}
	}
	doc, err := json.Marshal(map[string]any{
		"startDate":     snapshot.StartDate.Format(models.DateFormat),
		"preferences":   snapshot.Preferences,
		"academicTasks": snapshot.Workload,
		"windows":       flat,
	})
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

// checkOracleSchedule enforces the same shape the local planner guarantees.
func checkOracleSchedule(schedule *models.Schedule) error {
	if len(schedule.Blocks) == 0 {
		return fmt.Errorf("oracle schedule has no blocks")
	}
	for i, b := range schedule.Blocks {
		if _, err := time.Parse(models.DateFormat, b.Date); err != nil {
			return fmt.Errorf("block %d has invalid date %q", i, b.Date)
		}
		start, err := models.ParseClock(b.StartTime)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		end, err := models.ParseClock(b.EndTime)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if start >= end {
			return fmt.Errorf("block %d has inverted times %s-%s", i, b.StartTime, b.EndTime)
		}
		if b.Type != models.BlockTypeStudy && b.Type != models.BlockTypeFree {
			return fmt.Errorf("block %d has unknown type %q", i, b.Type)
		}
		for _, task := range b.ScheduledTasks {
			if task.Duration < 30 || task.Duration > 90 {
				return fmt.Errorf("block %d task %q has duration %d outside 30-90", i, task.Name, task.Duration)
			}
		}
	}
	return nil
}

// scheduleResponseFormat pins the model output to the schedule contract.
var scheduleResponseFormat = json.RawMessage(`{
  "type": "json_schema",
  "json_schema": {
    "name": "weekly_schedule",
    "strict": true,
    "schema": {
      "type": "object",
      "additionalProperties": false,
      "required": ["schedule"],
      "properties": {
        "schedule": {
          "type": "object",
          "additionalProperties": false,
          "required": ["blocks"],
          "properties": {
            "blocks": {
              "type": "array",
              "items": {
                "type": "object",
                "additionalProperties": false,
                "required": ["name", "date", "startTime", "endTime", "type", "scheduledTasks"],
                "properties": {
                  "name": {"type": "string"},
                  "date": {"type": "string"},
                  "startTime": {"type": "string"},
                  "endTime": {"type": "string"},
                  "type": {"type": "string", "enum": ["study", "free"]},
                  "scheduledTasks": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "additionalProperties": false,
                      "required": ["type", "name", "duration"],
                      "properties": {
                        "type": {"type": "string", "enum": ["assignment", "exam"]},
                        "name": {"type": "string"},
                        "duration": {"type": "integer"},
                        "comment": {"type": "string"}
                      }
                    }
                  }
                }
              }
            },
            "notes": {"type": "string"}
          }
        }
      }
    }
  }
}`)
