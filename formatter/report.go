package formatter

import (
	"agent-staffing/models"
	"agent-staffing/scheduler"
	"fmt"
	"math"
	"time"
)

// Options controls optional parts of the output.
type Options struct {
	// ShowUTC adds the UTC instant of every hour in date-aware mode.
	ShowUTC bool
}

// Report is the structured form of a run shared by the JSON and YAML
// formatters and the HTTP API.
type Report struct {
	Schedules        []HourReport      `json:"schedules" yaml:"schedules"`
	Summary          Summary           `json:"summary" yaml:"summary"`
	TimezoneInfo     *TimezoneInfo     `json:"timezone_info,omitempty" yaml:"timezone_info,omitempty"`
	CapacityAnalysis *CapacityAnalysis `json:"capacity_analysis,omitempty" yaml:"capacity_analysis,omitempty"`
}

// HourReport is one hour of the schedule
type HourReport struct {
	Hour          string         `json:"hour" yaml:"hour"`
	TotalAgents   int            `json:"total_agents" yaml:"total_agents"`
	Customers     map[string]int `json:"customers" yaml:"customers"`
	DatetimeUTC   string         `json:"datetime_utc,omitempty" yaml:"datetime_utc,omitempty"`
	DatetimeLocal string         `json:"datetime_local,omitempty" yaml:"datetime_local,omitempty"`
	Timezone      string         `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Summary holds day-level totals
type Summary struct {
	PeakTotalAgents int `json:"peak_total_agents" yaml:"peak_total_agents"`
	ActiveHours     int `json:"active_hours" yaml:"active_hours"`
}

// TimezoneInfo describes the scheduled day
type TimezoneInfo struct {
	Timezone        string `json:"timezone" yaml:"timezone"`
	Date            string `json:"date" yaml:"date"`
	HoursInDay      int    `json:"hours_in_day" yaml:"hours_in_day"`
	IsDSTTransition bool   `json:"is_dst_transition" yaml:"is_dst_transition"`
	DSTInfo         string `json:"dst_info,omitempty" yaml:"dst_info,omitempty"`
}

// CapacityAnalysis summarises a capacity-constrained allocation
type CapacityAnalysis struct {
	Capacity          int                         `json:"capacity" yaml:"capacity"`
	PeakDemand        int                         `json:"peak_demand" yaml:"peak_demand"`
	UnmetDemand       map[string]models.Shortfall `json:"unmet_demand" yaml:"unmet_demand"`
	UtilizationByHour []HourUtilization           `json:"utilization_by_hour" yaml:"utilization_by_hour"`
}

// HourUtilization is allocated/capacity for one enumerated hour
type HourUtilization struct {
	Index       int     `json:"index" yaml:"index"`
	Hour        string  `json:"hour" yaml:"hour"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// BuildReport assembles the structured output. alloc and day may be nil.
func BuildReport(schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext, opts Options) Report {
	report := Report{
		Schedules: make([]HourReport, len(schedules)),
		Summary:   Summary{PeakTotalAgents: scheduler.PeakDemand(schedules)},
	}

	for i, s := range schedules {
		hr := HourReport{
			Hour:        clockLabel(s.Label),
			TotalAgents: s.TotalAgents(),
			Customers:   make(map[string]int, len(s.Customers)),
		}
		for _, c := range s.Customers {
			hr.Customers[c.Name] = c.Agents
		}
		if !s.Local.IsZero() {
			hr.DatetimeLocal = s.Local.Format(time.RFC3339)
			hr.Timezone = s.Local.Location().String()
			if opts.ShowUTC {
				hr.DatetimeUTC = s.UTC.Format(time.RFC3339)
			}
		}
		if hr.TotalAgents > 0 {
			report.Summary.ActiveHours++
		}
		report.Schedules[i] = hr
	}

	if day != nil {
		report.TimezoneInfo = &TimezoneInfo{
			Timezone:        day.Location.String(),
			Date:            day.Date.Format(time.DateOnly),
			HoursInDay:      day.NumHours(),
			IsDSTTransition: day.IsDSTTransition(),
			DSTInfo:         day.DSTInfo,
		}
	}

	if alloc != nil {
		ca := &CapacityAnalysis{
			Capacity:          alloc.Capacity,
			PeakDemand:        alloc.PeakDemand,
			UnmetDemand:       alloc.UnmetDemand,
			UtilizationByHour: make([]HourUtilization, len(alloc.UtilizationByHour)),
		}
		if ca.UnmetDemand == nil {
			ca.UnmetDemand = map[string]models.Shortfall{}
		}
		for i, u := range alloc.UtilizationByHour {
			label := ""
			if i < len(alloc.Schedules) {
				label = clockLabel(alloc.Schedules[i].Label)
			}
			ca.UtilizationByHour[i] = HourUtilization{
				Index:       i,
				Hour:        label,
				Utilization: math.Round(u*1000) / 1000,
			}
		}
		report.CapacityAnalysis = ca
	}

	return report
}

func clockLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// hourLabel is the text and CSV label of an hour. On DST transition days the
// local date, time and zone are shown so repeated hours stay distinguishable.
func hourLabel(h models.Hour, day *models.ScheduleContext) string {
	if day != nil && day.IsDSTTransition() && !h.Local.IsZero() {
		return h.Local.Format("2006-01-02 15:04 MST")
	}
	return clockLabel(h.Label)
}
