// Package scheduler sizes agents per hour from customer call forecasts and
// allocates a fixed agent pool by customer priority.
//
// Every function is pure: passing a nil *models.ScheduleContext selects the
// fixed 24-hour day, a non-nil one selects the DST-aware day it enumerates.
package scheduler

import (
	"agent-staffing/calendar"
	"agent-staffing/models"
)

// hoursFor returns the hours a run iterates over.
func hoursFor(day *models.ScheduleContext) []models.Hour {
	if day == nil {
		return calendar.SimpleHours()
	}
	return day.Hours
}

// ComputeSchedule calculates the agents each customer needs in every hour of the
// day with no capacity limit. A customer appears in an hour only if it needs at
// least one agent.
func ComputeSchedule(requests []models.CustomerRequest, utilization float64, day *models.ScheduleContext) []models.HourlySchedule {
	hours := hoursFor(day)
	return scheduleFromDemand(requests, hours, buildDemand(requests, hours, utilization, day))
}

func scheduleFromDemand(requests []models.CustomerRequest, hours []models.Hour, demand demandTable) []models.HourlySchedule {
	schedules := make([]models.HourlySchedule, len(hours))
	for _, h := range hours {
		s := models.HourlySchedule{Hour: h}
		for i, req := range requests {
			if agents := demand[i][h.Index]; agents > 0 {
				s.Set(req.Name, agents)
			}
		}
		schedules[h.Index] = s
	}
	return schedules
}

// PeakDemand returns the largest hourly total, 0 for an empty day.
func PeakDemand(schedules []models.HourlySchedule) int {
	peak := 0
	for _, s := range schedules {
		if total := s.TotalAgents(); total > peak {
			peak = total
		}
	}
	return peak
}
