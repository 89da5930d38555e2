package parser

import (
	"agent-staffing/errors"
	"fmt"
	"strings"
	"time"
)

// ParseTimeToHour converts "9AM", "12PM" or "7:00PM" to an hour of day (0-23).
// Only whole hours are accepted.
func ParseTimeToHour(value string) (int, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	layouts := []string{"3PM", "3:04PM", "3 PM", "3:04 PM"}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			lastErr = err
			continue
		}
		// time.Parse accepts "0AM"; a 12-hour clock does not.
		if t.Hour()%12 == 0 && !strings.HasPrefix(v, "12") {
			return 0, fmt.Errorf("hour must be 1-12, got %q", value)
		}
		if t.Minute() != 0 || t.Second() != 0 {
			return 0, fmt.Errorf("only whole hours are supported, got %q", value)
		}
		return t.Hour(), nil
	}
	return 0, fmt.Errorf("expected a time like 9AM or 7PM, got %q: %w", value, lastErr)
}

// ValidateTimezone resolves an IANA timezone name. The US abbreviations PT, ET,
// CT and MT and the name UTC are accepted as well.
func ValidateTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "PT":
		name = "America/Los_Angeles"
	case "ET":
		name = "America/New_York"
	case "CT":
		name = "America/Chicago"
	case "MT":
		name = "America/Denver"
	case "UTC":
		return time.UTC, nil
	}

	// LoadLocation maps "" to UTC and "Local" to the host zone; neither is a
	// zone a caller meant to ask for.
	if name == "" || name == "Local" {
		return nil, &errors.ValidationError{Field: "timezone", Value: name, Err: errors.ErrInvalidTimezone}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &errors.ValidationError{Field: "timezone", Value: name, Err: errors.ErrInvalidTimezone}
	}
	return loc, nil
}

// ParseDate parses a YYYY-MM-DD date. An empty value means the date of now.
// The result is midnight UTC; only its year, month and day are meaningful.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, &errors.ValidationError{Field: "date", Value: value, Err: errors.ErrInvalidDate}
	}
	return t, nil
}

// ValidateUtilization checks that u is in (0, 1].
func ValidateUtilization(u float64) error {
	if u <= 0 || u > 1 {
		return &errors.ValidationError{Field: "utilization", Value: fmt.Sprint(u), Err: errors.ErrInvalidUtilization}
	}
	return nil
}

// ValidateCapacity checks that a requested capacity is positive.
func ValidateCapacity(capacity int) error {
	if capacity <= 0 {
		return &errors.ValidationError{Field: "capacity", Value: fmt.Sprint(capacity), Err: errors.ErrInvalidCapacity}
	}
	return nil
}
