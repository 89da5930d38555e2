package scheduler

import (
	"agent-staffing/models"
	"math"
)

// ActiveHours returns how many hours of the day the customer takes calls.
// Without a context this is EndHour-StartHour. With one, it counts the enumerated
// hours whose label falls in the window, so a skipped hour is not counted and a
// repeated hour is counted twice.
func ActiveHours(req models.CustomerRequest, day *models.ScheduleContext) int {
	if day == nil {
		return req.EndHour - req.StartHour
	}
	active := 0
	for _, h := range day.Hours {
		if req.IsActiveAt(h.Label) {
			active++
		}
	}
	return active
}

// CallsPerHour spreads the customer's calls evenly over its active hours.
// It is 0 when there are no active hours.
func CallsPerHour(req models.CustomerRequest, day *models.ScheduleContext) float64 {
	active := ActiveHours(req, day)
	if active <= 0 {
		return 0
	}
	return float64(req.NumberOfCalls) / float64(active)
}

// AgentsNeeded returns the agents the customer requires during a local hour:
// ceil(calls_per_hour * avg_duration / 3600 / utilization).
// A utilization <= 0 is treated as 1. Inactive hours need 0 agents.
func AgentsNeeded(req models.CustomerRequest, hour int, utilization float64, day *models.ScheduleContext) int {
	if !req.IsActiveAt(hour) {
		return 0
	}
	return agentsPerActiveHour(req, utilization, day)
}

// agentsPerActiveHour is AgentsNeeded for an hour known to be active.
func agentsPerActiveHour(req models.CustomerRequest, utilization float64, day *models.ScheduleContext) int {
	if utilization <= 0 {
		utilization = 1.0
	}
	rawAgents := CallsPerHour(req, day) * float64(req.AverageCallDurationSeconds) / 3600
	return int(math.Ceil(rawAgents / utilization))
}

// demandTable is the unconstrained agent demand of every request (rows, input
// order) in every enumerated hour (columns).
type demandTable [][]int

// buildDemand evaluates the demand model once per request; the per-hour value
// only depends on whether the hour is active.
func buildDemand(requests []models.CustomerRequest, hours []models.Hour, utilization float64, day *models.ScheduleContext) demandTable {
	table := make(demandTable, len(requests))
	for i, req := range requests {
		perHour := agentsPerActiveHour(req, utilization, day)
		row := make([]int, len(hours))
		for _, h := range hours {
			if req.IsActiveAt(h.Label) {
				row[h.Index] = perHour
			}
		}
		table[i] = row
	}
	return table
}
