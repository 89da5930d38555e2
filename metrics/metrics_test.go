package metrics_test

import (
	"agent-staffing/calendar"
	customerrors "agent-staffing/errors"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"agent-staffing/scheduler"
	"encoding/csv"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected string
	}{
		"MissingColumn": {
			err:      &customerrors.ParseError{Line: 1, Err: fmt.Errorf("%w: Priority", customerrors.ErrMissingColumn)},
			expected: "missing_column",
		},
		"InvalidPriority": {
			err:      &customerrors.ParseError{Line: 4, Err: customerrors.ErrInvalidPriority},
			expected: "invalid_priority",
		},
		"EmptyInput":   {err: customerrors.ErrEmptyInput, expected: "empty_input"},
		"FileNotFound": {err: fmt.Errorf("input file: %w", fs.ErrNotExist), expected: "file_not_found"},
		"CSVSyntax":    {err: fmt.Errorf("error reading CSV: %w", &csv.ParseError{Line: 2, Err: csv.ErrQuote}), expected: "csv_syntax"},
		"Other":        {err: fmt.Errorf("boom"), expected: "other"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, metrics.ErrorType(tt.err))
		})
	}
}

func TestObserveParse(t *testing.T) {
	records := testutil.ToFloat64(metrics.ParserRecordsTotal)
	warnings := testutil.ToFloat64(metrics.ParserWarningsTotal)
	priorityErrors := testutil.ToFloat64(metrics.ParserErrorsTotal.WithLabelValues("invalid_priority"))

	metrics.ObserveParse(time.Millisecond, 3, 1, nil)
	metrics.ObserveParse(time.Millisecond, 0, 0, &customerrors.ParseError{Line: 2, Err: customerrors.ErrInvalidPriority})

	assert.Equal(t, records+3, testutil.ToFloat64(metrics.ParserRecordsTotal))
	assert.Equal(t, warnings+1, testutil.ToFloat64(metrics.ParserWarningsTotal))
	assert.Equal(t, priorityErrors+1, testutil.ToFloat64(metrics.ParserErrorsTotal.WithLabelValues("invalid_priority")))
}

func TestObserveDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	metrics.ObserveDay(nil)
	assert.Equal(t, 24.0, testutil.ToFloat64(metrics.HoursInDay))

	before := testutil.ToFloat64(metrics.DSTTransitionRunsTotal.WithLabelValues("fall_back"))
	metrics.ObserveDay(calendar.NewScheduleContext(time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC), loc))
	assert.Equal(t, 25.0, testutil.ToFloat64(metrics.HoursInDay))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DSTTransitionRunsTotal.WithLabelValues("fall_back")))
}

func TestObserveSchedule(t *testing.T) {
	requests := []models.CustomerRequest{
		{Name: "A", AverageCallDurationSeconds: 3600, StartHour: 9, EndHour: 11, NumberOfCalls: 20, Priority: 1},
	}
	schedules := scheduler.ComputeSchedule(requests, 1.0, nil)

	metrics.AgentsUnmetTotal.Set(99)
	metrics.ObserveSchedule(time.Millisecond, len(requests), schedules)

	assert.Equal(t, 20.0, testutil.ToFloat64(metrics.AgentsDemandedTotal))
	assert.Equal(t, 20.0, testutil.ToFloat64(metrics.AgentsAllocatedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.AgentsUnmetTotal))
	assert.Equal(t, 10.0, testutil.ToFloat64(metrics.PeakDemandAgents))
}

func TestObserveAllocation(t *testing.T) {
	// Hour 10 needs Full=8, Part=4 and Starved=4 against a pool of 10.
	requests := []models.CustomerRequest{
		{Name: "Full", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 8, Priority: 1},
		{Name: "Part", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 4, Priority: 1},
		{Name: "Starved", AverageCallDurationSeconds: 3600, StartHour: 10, EndHour: 11, NumberOfCalls: 4, Priority: 2},
	}
	unconstrained := scheduler.ComputeSchedule(requests, 1.0, nil)
	alloc := scheduler.Allocate(requests, 10, 1.0, nil)

	full := testutil.ToFloat64(metrics.HighPriorityFullySatisfied)
	partial := testutil.ToFloat64(metrics.HighPriorityPartiallySatisfied)
	unsatisfied := testutil.ToFloat64(metrics.HighPriorityUnsatisfied)

	metrics.ObserveAllocation(time.Millisecond, requests, unconstrained, alloc)

	assert.Equal(t, 16.0, testutil.ToFloat64(metrics.AgentsDemandedTotal))
	assert.Equal(t, 10.0, testutil.ToFloat64(metrics.AgentsAllocatedTotal))
	assert.Equal(t, 6.0, testutil.ToFloat64(metrics.AgentsUnmetTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HoursWithUnmetDemand))
	assert.Equal(t, 16.0, testutil.ToFloat64(metrics.PeakDemandAgents))
	assert.Equal(t, 10.0, testutil.ToFloat64(metrics.SchedulerCapacityAgents))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PeakUtilizationRatio))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CallsUnmetByPriority.WithLabelValues("1")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.CallsUnmetByPriority.WithLabelValues("2")))

	assert.Equal(t, full+1, testutil.ToFloat64(metrics.HighPriorityFullySatisfied))
	assert.Equal(t, partial+1, testutil.ToFloat64(metrics.HighPriorityPartiallySatisfied))
	assert.Equal(t, unsatisfied, testutil.ToFloat64(metrics.HighPriorityUnsatisfied))
}

func TestRegistryGathers(t *testing.T) {
	metrics.ObserveDay(nil)
	count, err := testutil.GatherAndCount(metrics.Registry, "calendar_hours_in_day")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
