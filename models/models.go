package models

import "time"

// DefaultTimezone is used when neither a flag nor the environment names one.
const DefaultTimezone = "America/Los_Angeles"

// CustomerRequest is one customer's call forecast for the day.
// It is produced by the parser and read-only to the scheduler.
type CustomerRequest struct {
	Name                       string
	AverageCallDurationSeconds int
	// StartHour is inclusive and EndHour exclusive, both local hours of day.
	StartHour     int
	EndHour       int
	NumberOfCalls int
	// Priority ranges 1..5, 1 is the highest.
	Priority int
}

// IsActiveAt reports whether the customer takes calls during the given local hour.
func (r CustomerRequest) IsActiveAt(hour int) bool {
	return r.StartHour <= hour && hour < r.EndHour
}

// Hour is one entry of an enumerated day.
type Hour struct {
	// Index is the position within the day, 0..len-1.
	Index int
	// Label is the local hour of day. It may repeat or be skipped on DST days.
	Label int
	// Local and UTC are zero in simple (date-agnostic) mode.
	Local time.Time
	UTC   time.Time
}

// Transition describes what the civil clock does on a given day.
type Transition int

const (
	NoTransition Transition = iota
	SpringForward
	FallBack
)

func (t Transition) String() string {
	switch t {
	case SpringForward:
		return "spring_forward"
	case FallBack:
		return "fall_back"
	default:
		return "none"
	}
}

// ScheduleContext pins a run to one calendar date in one timezone.
type ScheduleContext struct {
	Date       time.Time
	Location   *time.Location
	Hours      []Hour
	Transition Transition
	// TransitionHour is the local hour that was skipped or repeated, -1 when none.
	TransitionHour int
	DSTInfo        string
}

// NumHours returns the length of the day: 23, 24 or 25.
func (c *ScheduleContext) NumHours() int {
	return len(c.Hours)
}

// IsDSTTransition reports whether the day is not 24 hours long.
func (c *ScheduleContext) IsDSTTransition() bool {
	return c.Transition != NoTransition
}

// CustomerAgents holds the number of agents assigned to a customer for an hour.
type CustomerAgents struct {
	Name   string
	Agents int
}

// HourlySchedule is the agent assignment for one enumerated hour.
type HourlySchedule struct {
	Hour
	// Customers keeps processing order. Names are unique within an hour.
	Customers []CustomerAgents
}

// Set records agents for a customer, replacing an existing entry with the same name.
func (s *HourlySchedule) Set(name string, agents int) {
	for i := range s.Customers {
		if s.Customers[i].Name == name {
			s.Customers[i].Agents = agents
			return
		}
	}
	s.Customers = append(s.Customers, CustomerAgents{Name: name, Agents: agents})
}

// Agents returns the agents assigned to name, or 0.
func (s HourlySchedule) Agents(name string) int {
	for _, c := range s.Customers {
		if c.Name == name {
			return c.Agents
		}
	}
	return 0
}

// TotalAgents sums the agents of every customer in the hour.
func (s HourlySchedule) TotalAgents() int {
	total := 0
	for _, c := range s.Customers {
		total += c.Agents
	}
	return total
}

// Shortfall reports the demand a customer did not get over the whole day.
type Shortfall struct {
	Name          string  `json:"-" yaml:"-"`
	CallsUnmet    int     `json:"calls_unmet" yaml:"calls_unmet"`
	CallsTotal    int     `json:"calls_total" yaml:"calls_total"`
	HoursAffected int     `json:"hours_affected" yaml:"hours_affected"`
	Priority      int     `json:"priority" yaml:"priority"`
	PercentUnmet  float64 `json:"percent_unmet" yaml:"percent_unmet"`
	// AgentHoursUnmet is the raw deficit the call count is derived from.
	AgentHoursUnmet int `json:"agent_hours_unmet" yaml:"agent_hours_unmet"`
}

// CapacityAllocation is the result of allocating a fixed agent pool.
// For every hour TotalAgents() <= Capacity.
type CapacityAllocation struct {
	Schedules  []HourlySchedule
	Capacity   int
	PeakDemand int
	// UnmetDemand is keyed by customer name and empty when capacity was sufficient.
	UnmetDemand map[string]Shortfall
	// UtilizationByHour is indexed like Schedules.
	UtilizationByHour []float64
}

// HasUnmetDemand reports whether any customer was short of agents.
func (a *CapacityAllocation) HasUnmetDemand() bool {
	return len(a.UnmetDemand) > 0
}
