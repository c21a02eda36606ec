package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/models"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
)

// Allocator turns availability windows into a concrete block schedule.
type Allocator interface {
	Name() string
	Plan(ctx context.Context, snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (*models.Schedule, []models.UnmetTask, error)
}

// RuleBasedAllocator is the deterministic local planner. Placement order:
// windows too short for a study session become free time, then non-preferred
// windows top up the free-time target, then exam sessions (hardest first) and
// assignment sessions (earliest due first) fill what remains, and leftovers
// become free time.
type RuleBasedAllocator struct {
	cfg    config.PlannerConfig
	logger *zap.Logger
}

// NewRuleBasedAllocator wires the planner with session and free-time policy.
func NewRuleBasedAllocator(cfg config.PlannerConfig, logger *zap.Logger) *RuleBasedAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleBasedAllocator{cfg: cfg, logger: logger}
}

// Name identifies the planner in schedule metadata.
func (a *RuleBasedAllocator) Name() string { return "rules" }

// slot is a mutable remnant of a window during allocation.
type slot struct {
	date     string
	dateIdx  int
	start    models.TimeOfDay
	end      models.TimeOfDay
	period   models.Period
	consumed bool
}

func (s *slot) minutes() int { return int(s.end - s.start) }

// sessionDemand is one study session awaiting placement.
type sessionDemand struct {
	taskType models.TaskType
	name     string
	duration int
	deadline time.Time
	// strictlyBefore excludes the deadline date itself (exam day).
	strictlyBefore bool
	// spreadKey forces sessions sharing a key onto distinct days.
	spreadKey string
	comment   string
}

// demandGroup tracks coverage bookkeeping for one workload item.
type demandGroup struct {
	taskType  models.TaskType
	name      string
	required  int
	scheduled int
	deadline  string
}

// Plan builds the schedule. It consults nothing beyond its arguments, so the
// same snapshot always yields byte-identical output.
func (a *RuleBasedAllocator) Plan(_ context.Context, snapshot models.PlanSnapshot, dates []string, windows map[string][]models.Window) (*models.Schedule, []models.UnmetTask, error) {
	slots := a.buildSlots(dates, windows)

	schedule := &models.Schedule{Blocks: []models.ScheduleBlock{}}
	freeTarget := int(snapshot.Preferences.MinFreeHours * 60 * float64(len(dates)))
	if snapshot.Preferences.MinFreeHours == 0 {
		freeTarget = int(a.cfg.MinFreeHours * 60 * float64(len(dates)))
	}
	freeMinutes := 0

	// Windows shorter than a minimum study session can only ever hold free
	// time, so they count toward the free target before anything else.
	for _, s := range slots {
		if s.minutes() < a.cfg.MinSessionLength {
			freeMinutes += s.minutes()
			schedule.Blocks = append(schedule.Blocks, a.freeBlock(s, s.start, s.end))
			s.consumed = true
		}
	}

	// Non-preferred windows top up the remaining free-time target. Preferred
	// windows stay reserved for study.
	preferred := preferredPeriods(snapshot.Preferences)
	for _, s := range slots {
		if s.consumed || freeMinutes >= freeTarget {
			continue
		}
		if preferred[s.period] {
			continue
		}
		need := freeTarget - freeMinutes
		if s.minutes() <= need+a.cfg.MinWindowMinutes {
			freeMinutes += s.minutes()
			schedule.Blocks = append(schedule.Blocks, a.freeBlock(s, s.start, s.end))
			s.consumed = true
			continue
		}
		end, _ := s.start.Add(need)
		schedule.Blocks = append(schedule.Blocks, a.freeBlock(s, s.start, end))
		freeMinutes += need
		s.start = end
	}

	demands, groups := a.buildDemands(snapshot)
	usedDates := make(map[string]map[string]bool)

	for i := range demands {
		d := &demands[i]
		chosen := a.pickSlot(slots, dates, d, snapshot.Preferences, usedDates[d.spreadKey])
		if chosen == nil && len(usedDates[d.spreadKey]) > 0 {
			// Spreading across distinct days is best effort; placing a second
			// session on an already used day beats dropping it.
			chosen = a.pickSlot(slots, dates, d, snapshot.Preferences, nil)
		}
		if chosen == nil {
			continue
		}
		block := a.studyBlock(chosen, d)
		schedule.Blocks = append(schedule.Blocks, block)
		if d.spreadKey != "" {
			if usedDates[d.spreadKey] == nil {
				usedDates[d.spreadKey] = make(map[string]bool)
			}
			usedDates[d.spreadKey][chosen.date] = true
		}
		if g, ok := groups[groupKey(d.taskType, d.name)]; ok {
			g.scheduled++
		}
	}

	// Whatever survives allocation becomes free time.
	for _, s := range slots {
		if s.consumed || s.minutes() < a.cfg.MinWindowMinutes {
			continue
		}
		freeMinutes += s.minutes()
		schedule.Blocks = append(schedule.Blocks, a.freeBlock(s, s.start, s.end))
		s.consumed = true
	}

	sortBlocks(schedule.Blocks)

	var notes []string
	if freeMinutes < freeTarget && freeTarget > 0 {
		notes = append(notes, fmt.Sprintf("free time goal not met: %d of %d minutes available across the horizon", freeMinutes, freeTarget))
	}

	unmet := collectUnmet(groups)
	if len(unmet) > 0 {
		notes = append(notes, "some tasks could not be fully scheduled within the available windows")
	}
	schedule.Notes = strings.Join(notes, "; ")

	return schedule, unmet, nil
}

func (a *RuleBasedAllocator) buildSlots(dates []string, windows map[string][]models.Window) []*slot {
	slots := make([]*slot, 0, len(dates)*4)
	for idx, date := range dates {
		for _, w := range windows[date] {
			slots = append(slots, &slot{
				date:    date,
				dateIdx: idx,
				start:   w.Interval.Start,
				end:     w.Interval.End,
				period:  w.Period,
			})
		}
	}
	return slots
}

// buildDemands expands the workload into ordered session demands: exams by
// descending difficulty then date, assignments by ascending due date.
func (a *RuleBasedAllocator) buildDemands(snapshot models.PlanSnapshot) ([]sessionDemand, map[string]*demandGroup) {
	groups := make(map[string]*demandGroup)
	var demands []sessionDemand

	exams := append([]models.Exam(nil), snapshot.Workload.Exams...)
	sort.SliceStable(exams, func(i, j int) bool {
		if exams[i].Difficulty != exams[j].Difficulty {
			return exams[i].Difficulty > exams[j].Difficulty
		}
		return exams[i].Date.Before(exams[j].Date)
	})
	for _, e := range exams {
		required := e.RequiredSessions()
		key := groupKey(models.TaskTypeExam, e.Label())
		groups[key] = &demandGroup{
			taskType: models.TaskTypeExam,
			name:     e.Label(),
			required: required,
			deadline: e.Date.Format(models.DateFormat),
		}
		duration := a.examSessionLength(e.Difficulty)
		for n := 0; n < required; n++ {
			demands = append(demands, sessionDemand{
				taskType:       models.TaskTypeExam,
				name:           e.Label(),
				duration:       duration,
				deadline:       e.Date,
				strictlyBefore: true,
				spreadKey:      key,
				comment:        fmt.Sprintf("Preparation for %s exam on %s", e.Course, e.Date.Format(models.DateFormat)),
			})
		}
	}

	assignments := make([]models.Assignment, 0, len(snapshot.Workload.Assignments))
	for _, item := range snapshot.Workload.Assignments {
		if !item.Completed {
			assignments = append(assignments, item)
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if !assignments[i].DueDate.Equal(assignments[j].DueDate) {
			return assignments[i].DueDate.Before(assignments[j].DueDate)
		}
		return priorityRank(assignments[i].Priority) > priorityRank(assignments[j].Priority)
	})
	for _, item := range assignments {
		key := groupKey(models.TaskTypeAssignment, item.Name)
		chunks := a.splitIntoSessions(item.EstimatedMinutes)
		groups[key] = &demandGroup{
			taskType: models.TaskTypeAssignment,
			name:     item.Name,
			required: 1,
			deadline: item.DueDate.Format(models.DateFormat),
		}
		for _, duration := range chunks {
			demands = append(demands, sessionDemand{
				taskType: models.TaskTypeAssignment,
				name:     item.Name,
				duration: duration,
				deadline: item.DueDate,
				comment:  fmt.Sprintf("Due %s", item.DueDate.Format(models.DateFormat)),
			})
		}
	}

	return demands, groups
}

// examSessionLength scales session length with difficulty on the 1-10 scale.
func (a *RuleBasedAllocator) examSessionLength(difficulty int) int {
	if difficulty >= 7 {
		return a.cfg.MaxSessionLength
	}
	return clamp(60, a.cfg.MinSessionLength, a.cfg.MaxSessionLength)
}

// splitIntoSessions chunks an estimate into allocator-sized sessions. The
// final remainder may dip to 30 minutes; anything smaller is rounded up.
func (a *RuleBasedAllocator) splitIntoSessions(estimated int) []int {
	if estimated <= 0 {
		estimated = clamp(60, a.cfg.MinSessionLength, a.cfg.MaxSessionLength)
	}
	var chunks []int
	remaining := estimated
	for remaining > 0 {
		chunk := remaining
		if chunk > a.cfg.MaxSessionLength {
			chunk = a.cfg.MaxSessionLength
		}
		if chunk < 30 {
			chunk = 30
		}
		chunks = append(chunks, chunk)
		remaining -= chunk
	}
	return chunks
}

// pickSlot chooses the best surviving slot for a demand: a slot in a
// preferred period wins, then earliest date, then earliest start.
func (a *RuleBasedAllocator) pickSlot(slots []*slot, dates []string, d *sessionDemand, prefs models.Preferences, usedDays map[string]bool) *slot {
	preferred := preferredPeriods(prefs)
	deadlineStr := d.deadline.Format(models.DateFormat)

	var best *slot
	bestPreferred := false
	for _, s := range slots {
		if s.consumed || s.minutes() < d.duration {
			continue
		}
		if d.strictlyBefore {
			if s.date >= deadlineStr {
				continue
			}
		} else if s.date > deadlineStr {
			continue
		}
		if usedDays != nil && usedDays[s.date] {
			continue
		}
		isPreferred := preferred[s.period]
		switch {
		case best == nil:
		case isPreferred && !bestPreferred:
		case isPreferred == bestPreferred && s.dateIdx < best.dateIdx:
		case isPreferred == bestPreferred && s.dateIdx == best.dateIdx && s.start < best.start:
		default:
			continue
		}
		best = s
		bestPreferred = isPreferred
	}
	return best
}

// studyBlock consumes the front of the slot. A tail too short to be a window
// on its own is absorbed into the block.
func (a *RuleBasedAllocator) studyBlock(s *slot, d *sessionDemand) models.ScheduleBlock {
	end, _ := s.start.Add(d.duration)
	duration := d.duration
	if int(s.end-end) < a.cfg.MinWindowMinutes {
		end = s.end
		duration = int(end - s.start)
		s.consumed = true
	}
	block := models.ScheduleBlock{
		Name:      "Study: " + d.name,
		Date:      s.date,
		StartTime: s.start.String(),
		EndTime:   end.String(),
		Type:      models.BlockTypeStudy,
		ScheduledTasks: []models.ScheduledTask{{
			Type:     d.taskType,
			Name:     d.name,
			Duration: clamp(duration, 30, 90),
			Comment:  d.comment,
		}},
	}
	s.start = end
	if s.minutes() <= 0 {
		s.consumed = true
	}
	return block
}

func (a *RuleBasedAllocator) freeBlock(s *slot, start, end models.TimeOfDay) models.ScheduleBlock {
	return models.ScheduleBlock{
		Name:           "Free Time",
		Date:           s.date,
		StartTime:      start.String(),
		EndTime:        end.String(),
		Type:           models.BlockTypeFree,
		ScheduledTasks: []models.ScheduledTask{},
	}
}

func collectUnmet(groups map[string]*demandGroup) []models.UnmetTask {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unmet []models.UnmetTask
	for _, k := range keys {
		g := groups[k]
		if g.scheduled >= g.required {
			continue
		}
		unmet = append(unmet, models.UnmetTask{
			Type:      g.taskType,
			Name:      g.name,
			Required:  g.required,
			Scheduled: g.scheduled,
			Deadline:  g.deadline,
		})
	}
	return unmet
}

func preferredPeriods(prefs models.Preferences) map[models.Period]bool {
	preferred := make(map[models.Period]bool, 3)
	for _, p := range prefs.PreferredPeriods {
		if models.ValidPeriod(p) {
			preferred[models.Period(p)] = true
		}
	}
	if prefs.FocusPeriod != "" && models.ValidPeriod(prefs.FocusPeriod) {
		preferred[models.Period(prefs.FocusPeriod)] = true
	}
	return preferred
}

func sortBlocks(blocks []models.ScheduleBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Date != blocks[j].Date {
			return blocks[i].Date < blocks[j].Date
		}
		return blocks[i].StartTime < blocks[j].StartTime
	})
}

func priorityRank(priority string) int {
	switch strings.ToLower(priority) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func groupKey(taskType models.TaskType, name string) string {
	return string(taskType) + ":" + strings.ToLower(strings.TrimSpace(name))
}
