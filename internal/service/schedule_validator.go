package service

import (
	"fmt"
	"strings"

	"github.com/danieltanurhan/study-planner-api/internal/models"
)

// ScheduleValidator checks a generated schedule for workload coverage.
// Assignments need at least one session; exams need their full required
// count, with any coverage at all downgrading the failure to a warning.
type ScheduleValidator struct{}

// NewScheduleValidator returns a stateless validator.
func NewScheduleValidator() *ScheduleValidator {
	return &ScheduleValidator{}
}

// Validate counts study sessions per workload item across the schedule and
// reports missing coverage. The unmet list carries the structured form of
// every shortfall, errors and warnings alike.
func (v *ScheduleValidator) Validate(schedule *models.Schedule, workload models.Workload) (models.ValidationResult, []models.UnmetTask) {
	result := models.ValidationResult{}
	var unmet []models.UnmetTask
	if schedule == nil {
		schedule = &models.Schedule{}
	}

	sessions := countSessions(schedule.Blocks)

	for _, a := range workload.Assignments {
		if a.Completed {
			continue
		}
		if sessions[taskKey(models.TaskTypeAssignment, a.Name)] > 0 {
			continue
		}
		result.Errors = append(result.Errors,
			fmt.Sprintf("assignment %q has no scheduled work before its due date %s", a.Name, a.DueDate.Format(models.DateFormat)))
		unmet = append(unmet, models.UnmetTask{
			Type:     models.TaskTypeAssignment,
			Name:     a.Name,
			Required: 1,
			Deadline: a.DueDate.Format(models.DateFormat),
		})
	}

	for _, e := range workload.Exams {
		required := e.RequiredSessions()
		got := sessions[taskKey(models.TaskTypeExam, e.Label())]
		if got >= required {
			continue
		}
		if got == 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("exam %q has no preparation sessions before %s", e.Label(), e.Date.Format(models.DateFormat)))
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("exam %q has %d of %d preparation sessions", e.Label(), got, required))
		}
		unmet = append(unmet, models.UnmetTask{
			Type:      models.TaskTypeExam,
			Name:      e.Label(),
			Required:  required,
			Scheduled: got,
			Deadline:  e.Date.Format(models.DateFormat),
		})
	}

	return result, unmet
}

// countSessions tallies study-block task entries keyed by type and name.
func countSessions(blocks []models.ScheduleBlock) map[string]int {
	sessions := make(map[string]int)
	for _, block := range blocks {
		if block.Type != models.BlockTypeStudy {
			continue
		}
		for _, task := range block.ScheduledTasks {
			sessions[taskKey(task.Type, task.Name)]++
		}
	}
	return sessions
}

func taskKey(taskType models.TaskType, name string) string {
	return string(taskType) + ":" + strings.ToLower(strings.TrimSpace(name))
}
