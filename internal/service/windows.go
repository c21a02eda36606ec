package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/models"
	"github.com/danieltanurhan/study-planner-api/pkg/config"
)

// WindowFinder computes the free availability windows across the planning
// horizon by subtracting fixed blocks from each day's awake span.
type WindowFinder struct {
	cfg       config.PlannerConfig
	collector *FixedBlockCollector
	logger    *zap.Logger
}

// NewWindowFinder wires the finder with planner defaults and a collector.
func NewWindowFinder(cfg config.PlannerConfig, collector *FixedBlockCollector, logger *zap.Logger) *WindowFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = NewFixedBlockCollector(cfg, logger)
	}
	return &WindowFinder{cfg: cfg, collector: collector, logger: logger}
}

// Horizon returns the ordered candidate dates from the snapshot start through
// the latest deadline, or the configured default span when the workload is
// empty. Weekends are skipped unless the preferences include them.
func (f *WindowFinder) Horizon(snapshot models.PlanSnapshot) []time.Time {
	start := truncateToDay(snapshot.StartDate)
	end := start.AddDate(0, 0, f.cfg.HorizonDays-1)
	if latest, ok := snapshot.Workload.LatestDeadline(); ok {
		latest = truncateToDay(latest)
		if latest.After(start) {
			end = latest
		}
	}

	dates := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !snapshot.Preferences.IncludeWeekends {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		dates = append(dates, d)
	}
	return dates
}

// Find computes the per-date availability windows over the horizon. The
// returned slice preserves date order; the map is keyed by YYYY-MM-DD.
func (f *WindowFinder) Find(snapshot models.PlanSnapshot) ([]string, map[string][]models.Window) {
	dates := f.Horizon(snapshot)
	ordered := make([]string, 0, len(dates))
	byDate := make(map[string][]models.Window, len(dates))

	for _, date := range dates {
		dateStr := date.Format(models.DateFormat)
		fixed := f.collector.Collect(date, snapshot.Preferences, snapshot.Fixed)
		windows := f.dayWindows(dateStr, snapshot.Preferences, fixed)
		ordered = append(ordered, dateStr)
		byDate[dateStr] = windows
	}
	return ordered, byDate
}

// dayWindows walks a cursor from wake to sleep, emitting every gap of at
// least the minimum window length between consecutive fixed blocks.
func (f *WindowFinder) dayWindows(dateStr string, prefs models.Preferences, fixed []models.FixedBlock) []models.Window {
	wake, sleep := f.collector.AwakeSpan(prefs)

	intervals := make([]models.Interval, 0, len(fixed))
	for _, block := range fixed {
		intervals = append(intervals, block.Interval)
	}
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})

	windows := make([]models.Window, 0, len(intervals)+1)
	cursor := wake
	for _, iv := range intervals {
		if iv.End <= cursor {
			continue
		}
		if iv.Start > cursor {
			gapEnd := iv.Start
			if gapEnd > sleep {
				gapEnd = sleep
			}
			windows = f.appendWindow(windows, dateStr, cursor, gapEnd)
		}
		if iv.End > cursor {
			cursor = iv.End
		}
		if cursor >= sleep {
			return windows
		}
	}
	return f.appendWindow(windows, dateStr, cursor, sleep)
}

func (f *WindowFinder) appendWindow(windows []models.Window, dateStr string, start, end models.TimeOfDay) []models.Window {
	if int(end-start) < f.cfg.MinWindowMinutes {
		return windows
	}
	interval, err := models.NewInterval(start, end)
	if err != nil {
		return windows
	}
	return append(windows, models.Window{
		Date:     dateStr,
		Interval: interval,
		Period:   models.PeriodOf(start),
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
