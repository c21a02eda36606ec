package service

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/models"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
)

// FixedBlockCollector assembles the immovable intervals for a calendar day
// from preferences: routine chains, meals, classes and recurring blocks.
// It does not detect overlaps among fixed blocks; that is the overlap
// validator's job, invoked before any fixed-block edit is committed.
type FixedBlockCollector struct {
	cfg    config.PlannerConfig
	logger *zap.Logger
}

// NewFixedBlockCollector wires the collector with planner defaults.
func NewFixedBlockCollector(cfg config.PlannerConfig, logger *zap.Logger) *FixedBlockCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixedBlockCollector{cfg: cfg, logger: logger}
}

// AwakeSpan resolves the [wake, sleep) interval for the given preferences,
// falling back to the configured defaults.
func (c *FixedBlockCollector) AwakeSpan(prefs models.Preferences) (models.TimeOfDay, models.TimeOfDay) {
	wake := c.clockOrDefault(prefs.WakeTime, c.cfg.WakeTime, "wakeTime")
	sleep := c.clockOrDefault(prefs.SleepTime, c.cfg.SleepTime, "sleepTime")
	if wake >= sleep {
		c.logger.Warn("wake time not before sleep time, using defaults",
			zap.String("wake", wake.String()), zap.String("sleep", sleep.String()))
		wake = c.clockOrDefault("", c.cfg.WakeTime, "wakeTime")
		sleep = c.clockOrDefault("", c.cfg.SleepTime, "sleepTime")
	}
	return wake, sleep
}

// Collect returns the start-sorted fixed blocks for one calendar date.
func (c *FixedBlockCollector) Collect(date time.Time, prefs models.Preferences, fixed models.FixedSchedule) []models.FixedBlock {
	dateStr := date.Format(models.DateFormat)
	weekday := int(date.Weekday())
	wake, sleep := c.AwakeSpan(prefs)

	blocks := make([]models.FixedBlock, 0, 8)

	// Morning routine activities run sequentially from wake time.
	cursor := wake
	for _, activity := range fixed.Routines.MorningRoutine {
		if activity.Duration <= 0 {
			continue
		}
		block, next, ok := c.routineBlock("Morning - "+activity.Name, dateStr, cursor, activity.Duration)
		if !ok {
			break
		}
		blocks = append(blocks, block)
		cursor = next
	}

	// Evening routine activities run sequentially from the configured start,
	// defaulting to sleep time when unset.
	eveningStart := c.clockOrDefault(fixed.Routines.EveningRoutineStart, sleep.String(), "eveningRoutineStart")
	cursor = eveningStart
	for _, activity := range fixed.Routines.EveningRoutine {
		if activity.Duration <= 0 {
			continue
		}
		block, next, ok := c.routineBlock("Evening - "+activity.Name, dateStr, cursor, activity.Duration)
		if !ok {
			break
		}
		blocks = append(blocks, block)
		cursor = next
	}

	for _, meal := range c.mealBlocks(dateStr, fixed.Meals) {
		blocks = append(blocks, meal)
	}

	for _, class := range fixed.Classes {
		if class.DayOfWeek != weekday {
			continue
		}
		if block, ok := c.timedBlock(class.Name, models.BlockKindClass, dateStr, class.StartTime, class.EndTime); ok {
			blocks = append(blocks, block)
		}
	}

	for _, regular := range fixed.RegularBlocks {
		if regular.DayOfWeek != weekday {
			continue
		}
		if block, ok := c.timedBlock(regular.Name, models.BlockKindRecurring, dateStr, regular.StartTime, regular.EndTime); ok {
			blocks = append(blocks, block)
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Interval.Start < blocks[j].Interval.Start
	})
	return blocks
}

func (c *FixedBlockCollector) mealBlocks(dateStr string, meals models.Meals) []models.FixedBlock {
	defaults := []struct {
		name     string
		start    string
		fallback string
		duration int
	}{
		{"Breakfast", meals.Breakfast, "08:00", meals.Durations.Breakfast},
		{"Lunch", meals.Lunch, "12:00", meals.Durations.Lunch},
		{"Dinner", meals.Dinner, "18:00", meals.Durations.Dinner},
	}

	blocks := make([]models.FixedBlock, 0, 3)
	for _, meal := range defaults {
		start := c.clockOrDefault(meal.start, meal.fallback, meal.name)
		duration := meal.duration
		if duration <= 0 {
			duration = c.cfg.MealDuration
		}
		end, ok := start.Add(duration)
		if !ok {
			c.logger.Warn("meal extends past midnight, clamping",
				zap.String("meal", meal.name), zap.String("start", start.String()))
			end = models.MinutesPerDay - 1
		}
		interval, err := models.NewInterval(start, end)
		if err != nil {
			c.logger.Warn("skipping malformed meal block", zap.String("meal", meal.name), zap.Error(err))
			continue
		}
		blocks = append(blocks, models.FixedBlock{
			Name:     meal.name,
			Kind:     models.BlockKindMeal,
			Date:     dateStr,
			Interval: interval,
		})
	}
	return blocks
}

func (c *FixedBlockCollector) routineBlock(name, dateStr string, start models.TimeOfDay, duration int) (models.FixedBlock, models.TimeOfDay, bool) {
	end, ok := start.Add(duration)
	if !ok {
		c.logger.Warn("routine activity extends past midnight, dropping remainder",
			zap.String("activity", name), zap.String("start", start.String()))
		return models.FixedBlock{}, start, false
	}
	interval, err := models.NewInterval(start, end)
	if err != nil {
		return models.FixedBlock{}, start, false
	}
	return models.FixedBlock{
		Name:     name,
		Kind:     models.BlockKindRoutine,
		Date:     dateStr,
		Interval: interval,
	}, end, true
}

func (c *FixedBlockCollector) timedBlock(name string, kind models.BlockKind, dateStr, startRaw, endRaw string) (models.FixedBlock, bool) {
	start := c.clockOrDefault(startRaw, "00:00", name+".startTime")
	end := c.clockOrDefault(endRaw, "00:00", name+".endTime")
	interval, err := models.NewInterval(start, end)
	if err != nil {
		c.logger.Warn("skipping malformed fixed block",
			zap.String("block", name), zap.String("kind", string(kind)), zap.Error(err))
		return models.FixedBlock{}, false
	}
	return models.FixedBlock{Name: name, Kind: kind, Date: dateStr, Interval: interval}, true
}

// clockOrDefault parses raw, then the fallback, then substitutes midnight.
// Bad values are logged and never abort a scheduling run.
func (c *FixedBlockCollector) clockOrDefault(raw, fallback, field string) models.TimeOfDay {
	if raw != "" {
		if t, err := models.ParseClock(raw); err == nil {
			return t
		}
		c.logger.Warn("invalid time format, substituting default",
			zap.String("field", field), zap.String("value", raw), zap.String("default", fallback))
	}
	if fallback != "" {
		if t, err := models.ParseClock(fallback); err == nil {
			return t
		}
	}
	return models.TimeOfDay(0)
}

// FormatBlockLabel renders a fixed block for diagnostics.
func FormatBlockLabel(block models.FixedBlock) string {
	return fmt.Sprintf("%s (%s %s-%s)", block.Name, block.Date, block.Interval.Start, block.Interval.End)
}
