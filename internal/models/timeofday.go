package models

import (
	"fmt"
)

// MinutesPerDay bounds every TimeOfDay value; blocks never cross midnight.
const MinutesPerDay = 24 * 60

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// TimeOfDay is a wall-clock time expressed as minutes since midnight,
// always within [0, 1440).
type TimeOfDay int

// ParseClock converts a zero-padded 24-hour "HH:MM" string into a TimeOfDay.
// All four clock characters must be digits; no sign or whitespace is accepted.
func ParseClock(raw string) (TimeOfDay, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", raw)
	}
	for _, idx := range [4]int{0, 1, 3, 4} {
		if raw[idx] < '0' || raw[idx] > '9' {
			return 0, fmt.Errorf("invalid time %q: want HH:MM", raw)
		}
	}
	hours := int(raw[0]-'0')*10 + int(raw[1]-'0')
	minutes := int(raw[3]-'0')*10 + int(raw[4]-'0')
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", raw)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// String renders the canonical zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Add shifts t by delta minutes. The second return value is false when the
// result would leave [0, 1440); midnight-crossing arithmetic is out of scope.
func (t TimeOfDay) Add(delta int) (TimeOfDay, bool) {
	result := TimeOfDay(int(t) + delta)
	return result, result.Valid()
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Interval is a half-open [Start, End) span within one day.
type Interval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewInterval validates start < end; zero-length and inverted intervals are
// rejected as malformed.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if !start.Valid() || !end.Valid() {
		return Interval{}, fmt.Errorf("interval %s-%s outside day bounds", start, end)
	}
	if start >= end {
		return Interval{}, fmt.Errorf("interval %s-%s must have start < end", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// Period is a coarse time-of-day bucket used for preference-aware allocation.
type Period string

const (
	PeriodMorning   Period = "morning"   // 08:00-12:00
	PeriodAfternoon Period = "afternoon" // 12:00-17:00
	PeriodEvening   Period = "evening"   // 17:00-22:00
)

// PeriodOf buckets a start time by hour. Times before the morning bucket fold
// into morning and times past the evening bucket fold into evening, so every
// window inside the awake span gets a tag.
func PeriodOf(t TimeOfDay) Period {
	switch hour := t.Hour(); {
	case hour < 12:
		return PeriodMorning
	case hour < 17:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

// ValidPeriod reports whether raw names a known bucket.
func ValidPeriod(raw string) bool {
	switch Period(raw) {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return true
	}
	return false
}
