package metrics

import (
	"agent-staffing/errors"
	"agent-staffing/models"
	"encoding/csv"
	stderrors "errors"
	"io/fs"
	"strconv"
	"time"
)

var parseErrorTypes = []struct {
	err  error
	name string
}{
	{errors.ErrEmptyInput, "empty_input"},
	{errors.ErrMissingColumn, "missing_column"},
	{errors.ErrInvalidFieldCount, "invalid_field_count"},
	{errors.ErrEmptyName, "empty_name"},
	{errors.ErrInvalidDuration, "invalid_duration"},
	{errors.ErrInvalidStartTime, "invalid_start_time"},
	{errors.ErrInvalidEndTime, "invalid_end_time"},
	{errors.ErrInvalidTimeWindow, "invalid_time_window"},
	{errors.ErrInvalidNumberOfCalls, "invalid_number_of_calls"},
	{errors.ErrInvalidPriority, "invalid_priority"},
	{fs.ErrNotExist, "file_not_found"},
}

// ErrorType returns the error_type label for a parse failure.
func ErrorType(err error) string {
	for _, t := range parseErrorTypes {
		if stderrors.Is(err, t.err) {
			return t.name
		}
	}
	var csvErr *csv.ParseError
	if stderrors.As(err, &csvErr) {
		return "csv_syntax"
	}
	return "other"
}

// ObserveParse records one parse of an input file.
func ObserveParse(elapsed time.Duration, records, warnings int, err error) {
	ParserDurationSeconds.Observe(elapsed.Seconds())
	if err != nil {
		ParserErrorsTotal.WithLabelValues(ErrorType(err)).Inc()
		return
	}
	ParserRecordsTotal.Add(float64(records))
	ParserWarningsTotal.Add(float64(warnings))
}

// ObserveDay records the shape of the scheduled day. A nil day is the fixed 24-hour day.
func ObserveDay(day *models.ScheduleContext) {
	if day == nil {
		HoursInDay.Set(24)
		return
	}
	HoursInDay.Set(float64(day.NumHours()))
	if day.IsDSTTransition() {
		DSTTransitionRunsTotal.WithLabelValues(day.Transition.String()).Inc()
	}
}

// ObserveSchedule records an unconstrained run.
func ObserveSchedule(elapsed time.Duration, customers int, schedules []models.HourlySchedule) {
	ResetSchedulerGauges()
	SchedulerDurationSeconds.WithLabelValues("unconstrained").Observe(elapsed.Seconds())
	SchedulerCustomersProcessed.Observe(float64(customers))

	total, peak := totals(schedules)
	AgentsDemandedTotal.Set(float64(total))
	AgentsAllocatedTotal.Set(float64(total))
	PeakDemandAgents.Set(float64(peak))
}

// ObserveAllocation records a capacity-constrained run. unconstrained is the
// schedule the same requests produce without a capacity limit.
func ObserveAllocation(elapsed time.Duration, requests []models.CustomerRequest, unconstrained []models.HourlySchedule, alloc *models.CapacityAllocation) {
	ResetSchedulerGauges()
	SchedulerDurationSeconds.WithLabelValues("capacity").Observe(elapsed.Seconds())
	SchedulerCustomersProcessed.Observe(float64(len(requests)))

	demanded, _ := totals(unconstrained)
	allocated, _ := totals(alloc.Schedules)
	AgentsDemandedTotal.Set(float64(demanded))
	AgentsAllocatedTotal.Set(float64(allocated))
	AgentsUnmetTotal.Set(float64(demanded - allocated))
	PeakDemandAgents.Set(float64(alloc.PeakDemand))
	SchedulerCapacityAgents.Set(float64(alloc.Capacity))

	short := 0
	for i := range unconstrained {
		if i < len(alloc.Schedules) && unconstrained[i].TotalAgents() > alloc.Schedules[i].TotalAgents() {
			short++
		}
	}
	HoursWithUnmetDemand.Set(float64(short))

	peakUtil := 0.0
	for _, u := range alloc.UtilizationByHour {
		peakUtil = max(peakUtil, u)
	}
	PeakUtilizationRatio.Set(peakUtil)

	for _, sf := range alloc.UnmetDemand {
		CallsUnmetByPriority.WithLabelValues(strconv.Itoa(sf.Priority)).Add(float64(sf.CallsUnmet))
	}

	observeHighPriority(requests, unconstrained, alloc.Schedules)
}

func observeHighPriority(requests []models.CustomerRequest, unconstrained, allocated []models.HourlySchedule) {
	seen := make(map[string]bool)
	for _, req := range requests {
		if req.Priority != 1 || seen[req.Name] {
			continue
		}
		seen[req.Name] = true

		wanted, got := agentHours(unconstrained, req.Name), agentHours(allocated, req.Name)
		switch {
		case got >= wanted:
			HighPriorityFullySatisfied.Inc()
		case got == 0:
			HighPriorityUnsatisfied.Inc()
		default:
			HighPriorityPartiallySatisfied.Inc()
		}
	}
}

func agentHours(schedules []models.HourlySchedule, name string) int {
	n := 0
	for _, s := range schedules {
		n += s.Agents(name)
	}
	return n
}

func totals(schedules []models.HourlySchedule) (sum, peak int) {
	for _, s := range schedules {
		t := s.TotalAgents()
		sum += t
		peak = max(peak, t)
	}
	return sum, peak
}
