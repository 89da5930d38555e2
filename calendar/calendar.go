// Package calendar enumerates the hours of a civil day in a timezone.
package calendar

import (
	"agent-staffing/models"
	"fmt"
	"time"
)

// EnumerateHours returns the local hours that make up date in loc.
// Only the year, month and day of date are used.
//
// The walk happens in UTC between the two local midnights, so a day where the
// clock springs forward yields 23 entries and a day where it falls back yields 25,
// with the repeated local hour appearing twice. Zones that change the clock at
// midnight are handled: the day starts at the first instant carrying its date.
func EnumerateHours(date time.Time, loc *time.Location) []models.Hour {
	y, m, d := date.Date()
	start := startOfDay(date, loc).UTC()
	end := startOfDay(time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC), loc).UTC()

	hours := make([]models.Hour, 0, 25)
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		local := t.In(loc)
		hours = append(hours, models.Hour{
			Index: len(hours),
			Label: local.Hour(),
			Local: local,
			UTC:   t,
		})
	}
	return hours
}

// SimpleHours returns the fixed 24-hour day used when no date is given.
func SimpleHours() []models.Hour {
	hours := make([]models.Hour, 24)
	for h := range 24 {
		hours[h] = models.Hour{Index: h, Label: h}
	}
	return hours
}

// NewScheduleContext enumerates the day and records any DST transition on it.
func NewScheduleContext(date time.Time, loc *time.Location) *models.ScheduleContext {
	sc := &models.ScheduleContext{
		Date:           startOfDay(date, loc),
		Location:       loc,
		Hours:          EnumerateHours(date, loc),
		TransitionHour: -1,
	}

	switch n := len(sc.Hours); {
	case n < 24:
		sc.Transition = models.SpringForward
		sc.TransitionHour = skippedHour(sc.Hours)
		sc.DSTInfo = fmt.Sprintf("DST spring forward (%d-hour day, %02d:00 skipped)", n, sc.TransitionHour)
	case n > 24:
		sc.Transition = models.FallBack
		sc.TransitionHour = repeatedHour(sc.Hours)
		sc.DSTInfo = fmt.Sprintf("DST fall back (%d-hour day, %02d:00 repeated)", n, sc.TransitionHour)
	}
	return sc
}

// startOfDay returns the earliest instant whose local date in loc is the
// calendar date of date. Local midnight may be skipped or repeated, and
// time.Date does not say which side of the change it picks then.
func startOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for localDate(t, loc).Before(target) {
		t = t.Add(time.Hour)
	}
	for localDate(t.Add(-time.Hour), loc).Equal(target) {
		t = t.Add(-time.Hour)
	}
	return t
}

// localDate is the calendar date of t in loc, as midnight UTC.
func localDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func skippedHour(hours []models.Hour) int {
	seen := make([]bool, 24)
	for _, h := range hours {
		seen[h.Label] = true
	}
	for label, ok := range seen {
		if !ok {
			return label
		}
	}
	return -1
}

func repeatedHour(hours []models.Hour) int {
	seen := make([]bool, 24)
	for _, h := range hours {
		if seen[h.Label] {
			return h.Label
		}
		seen[h.Label] = true
	}
	return -1
}
