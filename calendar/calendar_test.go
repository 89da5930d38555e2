package calendar_test

import (
	"agent-staffing/calendar"
	"agent-staffing/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func labels(hours []models.Hour) []int {
	out := make([]int, len(hours))
	for i, h := range hours {
		out[i] = h.Label
	}
	return out
}

func countLabel(hours []models.Hour, label int) int {
	n := 0
	for _, h := range hours {
		if h.Label == label {
			n++
		}
	}
	return n
}

func TestEnumerateHours(t *testing.T) {
	tests := map[string]struct {
		date     time.Time
		zone     string
		expected int
		missing  []int
		repeated int
	}{
		"RegularDay_LosAngeles": {
			date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			zone:     "America/Los_Angeles",
			expected: 24,
			repeated: -1,
		},
		"SpringForward_LosAngeles": {
			date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			zone:     "America/Los_Angeles",
			expected: 23,
			missing:  []int{2},
			repeated: -1,
		},
		"FallBack_LosAngeles": {
			date:     time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
			zone:     "America/Los_Angeles",
			expected: 25,
			repeated: 1,
		},
		"SpringForward_London": {
			date:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			zone:     "Europe/London",
			expected: 23,
			missing:  []int{1},
			repeated: -1,
		},
		"SpringForwardAtMidnight_Santiago": {
			date:     time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
			zone:     "America/Santiago",
			expected: 23,
			missing:  []int{0},
			repeated: -1,
		},
		"SpringForwardAtMidnight_Havana": {
			date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			zone:     "America/Havana",
			expected: 23,
			missing:  []int{0},
			repeated: -1,
		},
		"SpringForwardAtMidnight_Asuncion": {
			date:     time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
			zone:     "America/Asuncion",
			expected: 23,
			missing:  []int{0},
			repeated: -1,
		},
		"DayBeforeMidnightChange_Santiago": {
			date:     time.Date(2024, 9, 7, 0, 0, 0, 0, time.UTC),
			zone:     "America/Santiago",
			expected: 24,
			repeated: -1,
		},
		"FallBackAtMidnight_Santiago": {
			date:     time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC),
			zone:     "America/Santiago",
			expected: 25,
			repeated: 23,
		},
		"FallBackToMidnight_Havana": {
			date:     time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
			zone:     "America/Havana",
			expected: 25,
			repeated: 0,
		},
		"UTC_NeverShifts": {
			date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			zone:     "UTC",
			expected: 24,
			repeated: -1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loc := mustLoadLocation(t, tt.zone)
			hours := calendar.EnumerateHours(tt.date, loc)

			require.Len(t, hours, tt.expected)
			y, m, d := tt.date.Date()
			for _, h := range hours {
				hy, hm, hd := h.Local.Date()
				assert.Equal(t, []int{y, int(m), d}, []int{hy, int(hm), hd}, "hour %s is outside the day", h.Local)
			}
			for _, m := range tt.missing {
				assert.NotContains(t, labels(hours), m, "hour %d should be skipped", m)
			}
			if tt.repeated >= 0 {
				assert.Equal(t, 2, countLabel(hours, tt.repeated), "hour %d should repeat", tt.repeated)
			}
			for i, h := range hours {
				assert.Equal(t, i, h.Index)
				assert.Equal(t, loc, h.Local.Location())
				assert.True(t, h.Local.Equal(h.UTC))
				if i > 0 {
					assert.Equal(t, time.Hour, h.UTC.Sub(hours[i-1].UTC))
				}
			}
		})
	}
}

func TestEnumerateHours_RegularDayIsContiguous(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	for _, day := range []int{1, 5, 15, 28} {
		hours := calendar.EnumerateHours(time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC), loc)
		require.Len(t, hours, 24)
		for i, h := range hours {
			assert.Equal(t, i, h.Label)
		}
	}
}

func TestEnumerateHours_IgnoresTimeOfDay(t *testing.T) {
	loc := mustLoadLocation(t, "America/Los_Angeles")
	midnight := calendar.EnumerateHours(time.Date(2024, 3, 10, 0, 0, 0, 0, loc), loc)
	evening := calendar.EnumerateHours(time.Date(2024, 3, 10, 22, 30, 0, 0, loc), loc)
	assert.Equal(t, midnight, evening)
}

func TestSimpleHours(t *testing.T) {
	hours := calendar.SimpleHours()
	require.Len(t, hours, 24)
	for i, h := range hours {
		assert.Equal(t, i, h.Index)
		assert.Equal(t, i, h.Label)
		assert.True(t, h.Local.IsZero())
	}
}

func TestNewScheduleContext(t *testing.T) {
	tests := map[string]struct {
		date       time.Time
		zone       string
		hours      int
		transition models.Transition
		hour       int
		info       string
	}{
		"Regular": {
			date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			zone:       "America/Los_Angeles",
			hours:      24,
			transition: models.NoTransition,
			hour:       -1,
			info:       "",
		},
		"SpringForward": {
			date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			zone:       "America/Los_Angeles",
			hours:      23,
			transition: models.SpringForward,
			hour:       2,
			info:       "DST spring forward (23-hour day, 02:00 skipped)",
		},
		"FallBack": {
			date:       time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC),
			zone:       "America/Los_Angeles",
			hours:      25,
			transition: models.FallBack,
			hour:       1,
			info:       "DST fall back (25-hour day, 01:00 repeated)",
		},
		"SpringForwardAtMidnight_Santiago": {
			date:       time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
			zone:       "America/Santiago",
			hours:      23,
			transition: models.SpringForward,
			hour:       0,
			info:       "DST spring forward (23-hour day, 00:00 skipped)",
		},
		"SpringForwardAtMidnight_Havana": {
			date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			zone:       "America/Havana",
			hours:      23,
			transition: models.SpringForward,
			hour:       0,
			info:       "DST spring forward (23-hour day, 00:00 skipped)",
		},
		"FallBackAtMidnight_Santiago": {
			date:       time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC),
			zone:       "America/Santiago",
			hours:      25,
			transition: models.FallBack,
			hour:       23,
			info:       "DST fall back (25-hour day, 23:00 repeated)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loc := mustLoadLocation(t, tt.zone)
			sc := calendar.NewScheduleContext(tt.date, loc)
			assert.Equal(t, tt.hours, sc.NumHours())
			assert.Equal(t, tt.transition, sc.Transition)
			assert.Equal(t, tt.transition != models.NoTransition, sc.IsDSTTransition())
			assert.Equal(t, tt.hour, sc.TransitionHour)
			assert.Equal(t, tt.info, sc.DSTInfo)
			assert.Equal(t, tt.date.Format(time.DateOnly), sc.Date.Format(time.DateOnly))
			assert.True(t, sc.Date.Equal(sc.Hours[0].Local))
			assert.Equal(t, loc, sc.Location)
		})
	}
}
