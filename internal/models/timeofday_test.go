package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		raw  string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"07:30", 450},
		{"12:00", 720},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.raw, got.String())
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, raw := range []string{"", "7:30", "24:00", "12:60", "12-30", "noon", "12:3", "123:0", "09:3a", "0a:30", "+9:30", " 9:30"} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestIntervalOverlapsHalfOpen(t *testing.T) {
	a := Interval{Start: 540, End: 600}  // 09:00-10:00
	b := Interval{Start: 570, End: 630}  // 09:30-10:30
	c := Interval{Start: 600, End: 660}  // 10:00-11:00
	d := Interval{Start: 480, End: 720}  // 08:00-12:00

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c), "touching endpoints do not overlap")
	assert.False(t, c.Overlaps(a))
	assert.True(t, a.Overlaps(d), "containment counts as overlap")
	assert.True(t, d.Overlaps(a))
}

func TestNewIntervalRejectsInverted(t *testing.T) {
	_, err := NewInterval(600, 600)
	assert.Error(t, err)
	_, err = NewInterval(660, 600)
	assert.Error(t, err)

	iv, err := NewInterval(540, 600)
	require.NoError(t, err)
	assert.Equal(t, 60, iv.Duration())
}

func TestPeriodOf(t *testing.T) {
	cases := []struct {
		clock string
		want  Period
	}{
		{"06:30", PeriodMorning},
		{"08:00", PeriodMorning},
		{"11:59", PeriodMorning},
		{"12:00", PeriodAfternoon},
		{"16:59", PeriodAfternoon},
		{"17:00", PeriodEvening},
		{"22:30", PeriodEvening},
	}
	for _, tc := range cases {
		tod, err := ParseClock(tc.clock)
		require.NoError(t, err)
		assert.Equal(t, tc.want, PeriodOf(tod), tc.clock)
	}
}

func TestTimeOfDayAdd(t *testing.T) {
	start, _ := ParseClock("23:30")
	_, ok := start.Add(45)
	assert.False(t, ok, "crossing midnight is out of bounds")

	end, ok := start.Add(15)
	assert.True(t, ok)
	assert.Equal(t, "23:45", end.String())
}

func TestExamRequiredSessions(t *testing.T) {
	assert.Equal(t, 2, Exam{Difficulty: 1}.RequiredSessions())
	assert.Equal(t, 2, Exam{Difficulty: 7}.RequiredSessions())
	assert.Equal(t, 3, Exam{Difficulty: 8}.RequiredSessions())
	assert.Equal(t, 3, Exam{Difficulty: 10}.RequiredSessions())
}
