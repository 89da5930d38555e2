// Package metrics provides Prometheus observability metrics for the agent staffing engine.
// It includes Critical and Important metrics for business and operational visibility.
//
// The engine packages never touch these metrics; the CLI and the HTTP server
// record them around each run through the Observe helpers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// AgentsUnmetTotal tracks agent-hours that could not be allocated in the last run.
// High values indicate capacity planning issues.
var AgentsUnmetTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_unmet_total",
	Help:      "Agent-hours that could not be allocated due to capacity constraints",
})

// AgentsDemandedTotal tracks unconstrained agent-hours across the day.
var AgentsDemandedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_demanded_total",
	Help:      "Agent-hours demanded across all customers and hours",
})

// AgentsAllocatedTotal tracks agent-hours actually allocated.
var AgentsAllocatedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_allocated_total",
	Help:      "Agent-hours successfully allocated",
})

// PeakDemandAgents is the unconstrained peak hourly total of the last run.
var PeakDemandAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "peak_demand_agents",
	Help:      "Largest unconstrained hourly agent total of the last run",
})

// PeakUtilizationRatio is the busiest hour's allocated/capacity ratio.
var PeakUtilizationRatio = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "peak_utilization_ratio",
	Help:      "Highest hourly allocated/capacity ratio of the last capacity-constrained run",
})

// HighPriorityFullySatisfied tracks count of priority-1 customers fully satisfied.
var HighPriorityFullySatisfied = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "high_priority_fully_satisfied_total",
	Help:      "Count of priority-1 (highest) customers that were fully satisfied",
})

// HighPriorityPartiallySatisfied tracks count of priority-1 customers only partially satisfied.
var HighPriorityPartiallySatisfied = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "high_priority_partially_satisfied_total",
	Help:      "Count of priority-1 customers that were only partially satisfied",
})

// HighPriorityUnsatisfied tracks count of priority-1 customers with zero allocation.
var HighPriorityUnsatisfied = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "high_priority_unsatisfied_total",
	Help:      "Count of priority-1 customers that received zero allocation",
})

// HoursWithUnmetDemand tracks number of hours where capacity was exceeded.
var HoursWithUnmetDemand = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "hours_with_unmet_demand",
	Help:      "Number of hours in the schedule where demand exceeded capacity",
})

// CallsUnmetByPriority tracks unmet calls by priority level.
var CallsUnmetByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "calls_unmet_by_priority",
	Help:      "Calls left unserved broken down by customer priority level",
}, []string{"priority"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV records successfully parsed",
})

// ParserWarningsTotal tracks non-fatal input problems.
var ParserWarningsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "warnings_total",
	Help:      "Total warnings raised while parsing input",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// SchedulerDurationSeconds tracks time to compute a schedule or allocation.
var SchedulerDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to generate the schedule",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
}, []string{"mode"})

// SchedulerCustomersProcessed tracks number of customers per scheduling run.
var SchedulerCustomersProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "customers_processed",
	Help:      "Number of customers processed per scheduling run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// SchedulerCapacityAgents is the agent pool of the last constrained run.
var SchedulerCapacityAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "capacity_agents",
	Help:      "Agent capacity per hour applied to the last capacity-constrained run",
})

// HoursInDay is the length of the last scheduled day: 23, 24 or 25.
var HoursInDay = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "calendar",
	Name:      "hours_in_day",
	Help:      "Number of enumerated hours in the last scheduled day",
})

// DSTTransitionRunsTotal counts runs scheduled on a DST transition day.
var DSTTransitionRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "calendar",
	Name:      "dst_transition_runs_total",
	Help:      "Scheduling runs on a day with a DST transition, by transition kind",
}, []string{"transition"})

// HTTPRequestsTotal counts API requests by route and status code.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "http",
	Name:      "requests_total",
	Help:      "HTTP requests handled, by route and status code",
}, []string{"route", "status"})

// HTTPRequestDurationSeconds tracks API latency by route.
var HTTPRequestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetSchedulerGauges resets all scheduler gauges before a new scheduling run.
func ResetSchedulerGauges() {
	AgentsUnmetTotal.Set(0)
	AgentsDemandedTotal.Set(0)
	AgentsAllocatedTotal.Set(0)
	PeakDemandAgents.Set(0)
	PeakUtilizationRatio.Set(0)
	HoursWithUnmetDemand.Set(0)
	SchedulerCapacityAgents.Set(0)
	CallsUnmetByPriority.Reset()
}
