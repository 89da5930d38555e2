package scheduler

import (
	"agent-staffing/models"
	"math"
	"sort"
)

// Allocate distributes a fixed pool of capacity agents across customers, hour by
// hour, highest priority (lowest value) first.
//
// If the unconstrained peak fits in capacity the unconstrained schedule is
// returned as is. Otherwise each hour starts with the full capacity and customers
// take min(demand, remaining) in priority order; equal priorities keep input
// order. Nothing carries over between hours. Capacity must be positive.
func Allocate(requests []models.CustomerRequest, capacity int, utilization float64, day *models.ScheduleContext) *models.CapacityAllocation {
	hours := hoursFor(day)
	demand := buildDemand(requests, hours, utilization, day)
	unconstrained := scheduleFromDemand(requests, hours, demand)
	peak := PeakDemand(unconstrained)

	if peak <= capacity {
		return &models.CapacityAllocation{
			Schedules:         unconstrained,
			Capacity:          capacity,
			PeakDemand:        peak,
			UnmetDemand:       map[string]models.Shortfall{},
			UtilizationByHour: utilizationByHour(unconstrained, capacity),
		}
	}

	order := priorityOrder(requests)
	schedules := make([]models.HourlySchedule, len(hours))
	granted := make(demandTable, len(requests))
	for i := range granted {
		granted[i] = make([]int, len(hours))
	}

	for _, h := range hours {
		s, grants := allocateHour(h, requests, order, demand, capacity)
		schedules[h.Index] = s
		for i, g := range grants {
			granted[i][h.Index] = g
		}
	}

	return &models.CapacityAllocation{
		Schedules:         schedules,
		Capacity:          capacity,
		PeakDemand:        peak,
		UnmetDemand:       shortfalls(requests, demand, granted),
		UtilizationByHour: utilizationByHour(schedules, capacity),
	}
}

// priorityOrder returns request indices sorted by priority, stable on input order.
func priorityOrder(requests []models.CustomerRequest) []int {
	order := make([]int, len(requests))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return requests[order[a]].Priority < requests[order[b]].Priority
	})
	return order
}

// allocateHour grants agents for a single hour. grants is indexed like requests.
func allocateHour(h models.Hour, requests []models.CustomerRequest, order []int, demand demandTable, capacity int) (models.HourlySchedule, []int) {
	s := models.HourlySchedule{Hour: h}
	grants := make([]int, len(requests))
	remaining := capacity

	for _, i := range order {
		req := requests[i]
		if !req.IsActiveAt(h.Label) {
			continue
		}
		g := min(demand[i][h.Index], remaining)
		if g <= 0 {
			continue
		}
		grants[i] = g
		remaining -= g
		s.Set(req.Name, g)
	}
	return s, grants
}

// shortfalls compares demanded and granted agent-hours per customer over the day.
// Unmet calls are truncated, not rounded. The percentage keeps one decimal
// and exact halves round to even.
func shortfalls(requests []models.CustomerRequest, demand, granted demandTable) map[string]models.Shortfall {
	unmet := make(map[string]models.Shortfall)
	for i, req := range requests {
		var wanted, got, affected int
		for h := range demand[i] {
			wanted += demand[i][h]
			got += granted[i][h]
			if granted[i][h] < demand[i][h] {
				affected++
			}
		}
		if got >= wanted {
			continue
		}

		deficit := wanted - got
		calls := deficit * 3600 / req.AverageCallDurationSeconds
		percent := 0.0
		if req.NumberOfCalls > 0 {
			percent = math.RoundToEven(1000*float64(calls)/float64(req.NumberOfCalls)) / 10
		}
		unmet[req.Name] = models.Shortfall{
			Name:            req.Name,
			CallsUnmet:      calls,
			CallsTotal:      req.NumberOfCalls,
			HoursAffected:   affected,
			Priority:        req.Priority,
			PercentUnmet:    percent,
			AgentHoursUnmet: deficit,
		}
	}
	return unmet
}

func utilizationByHour(schedules []models.HourlySchedule, capacity int) []float64 {
	util := make([]float64, len(schedules))
	if capacity <= 0 {
		return util
	}
	for i, s := range schedules {
		util[i] = float64(s.TotalAgents()) / float64(capacity)
	}
	return util
}
