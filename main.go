package main

import (
	"agent-staffing/calendar"
	"agent-staffing/config"
	"agent-staffing/formatter"
	"agent-staffing/logger"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"agent-staffing/parser"
	"agent-staffing/scheduler"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain runs the CLI and returns the process exit code, so deferred calls
// complete before the process exits.
func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(os.Getenv("SCHEDULER_CONFIG"))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Define flags
	flags := flag.NewFlagSet("scheduler", flag.ContinueOnError)
	flags.SetOutput(stderr)
	input := flags.String("input", cfg.Input, "Input CSV file")
	format := flags.String("format", formatter.Text, "Output format: "+strings.Join(formatter.Kinds, "|"))
	utilization := flags.Float64("utilization", cfg.Utilization, "Utilization multiplier (greater than 0, at most 1)")
	capacity := flags.Int("capacity", 0, "Maximum agent capacity per hour (0 = unlimited)")
	timezone := flags.String("timezone", cfg.Timezone, "Timezone for scheduling (IANA name, or PT/ET/CT/MT)")
	date := flags.String("date", "", "Date to schedule, YYYY-MM-DD (default: today in -timezone)")
	showUTC := flags.Bool("show-utc", false, "Include UTC instants in JSON and YAML output")
	verbose := flags.Bool("verbose", false, "Log run details to stderr")
	metricsAddr := flags.String("metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flags.String("push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flags.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info("Metrics server listening", "addr", *metricsAddr, "path", "/metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error("Metrics server error", "error", err)
			}
		}()
	}

	output, err := run(runOptions{
		input:       *input,
		format:      *format,
		utilization: *utilization,
		capacity:    *capacity,
		timezone:    *timezone,
		date:        *date,
		showUTC:     *showUTC,
	}, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, output)

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "agent_staffing"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			log.Error("Error pushing to Pushgateway", "url", *pushGateway, "error", err)
		} else {
			log.Info("Metrics successfully pushed to Pushgateway", "url", *pushGateway)
		}
	}

	if *wait && *metricsAddr != "" {
		log.Info("Process kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		log.Info("Exiting")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
	return 0
}

type runOptions struct {
	input       string
	format      string
	utilization float64
	capacity    int
	timezone    string
	date        string
	showUTC     bool
}

// run validates the options, computes the schedule for one calendar day in the
// requested timezone and renders it.
func run(opts runOptions, log logger.Logger) (string, error) {
	if err := formatter.ValidateKind(opts.format); err != nil {
		return "", err
	}
	if err := parser.ValidateUtilization(opts.utilization); err != nil {
		return "", err
	}
	if opts.capacity < 0 {
		return "", parser.ValidateCapacity(opts.capacity)
	}

	loc, err := parser.ValidateTimezone(opts.timezone)
	if err != nil {
		return "", err
	}
	day, err := scheduleDay(opts.date, loc)
	if err != nil {
		return "", err
	}
	metrics.ObserveDay(day)
	if day.IsDSTTransition() {
		log.Info("Scheduling a DST transition day", "date", day.Date.Format(time.DateOnly), "info", day.DSTInfo)
	}

	start := time.Now()
	requests, warnings, err := parser.ParseFile(opts.input)
	metrics.ObserveParse(time.Since(start), len(requests), len(warnings), err)
	if err != nil {
		return "", err
	}
	for _, w := range warnings {
		log.Warn("Input warning", "file", opts.input, "warning", w)
	}
	log.Debug("Parsed input", "file", opts.input, "customers", len(requests), "timezone", loc.String(), "hours", day.NumHours())
	for _, req := range requests {
		log.Debug("Customer",
			"name", req.Name,
			"calls", req.NumberOfCalls,
			"window", fmt.Sprintf("%02d:00-%02d:00", req.StartHour, req.EndHour),
			"priority", req.Priority,
		)
	}

	fmtOpts := formatter.Options{ShowUTC: opts.showUTC}
	start = time.Now()
	if opts.capacity > 0 {
		alloc := scheduler.Allocate(requests, opts.capacity, opts.utilization, day)
		metrics.ObserveAllocation(time.Since(start), requests, scheduler.ComputeSchedule(requests, opts.utilization, day), alloc)
		log.Debug("Allocated capacity",
			"capacity", alloc.Capacity,
			"peak_demand", alloc.PeakDemand,
			"customers_short", len(alloc.UnmetDemand),
		)
		return formatter.Format(opts.format, alloc.Schedules, alloc, day, fmtOpts)
	}

	schedules := scheduler.ComputeSchedule(requests, opts.utilization, day)
	metrics.ObserveSchedule(time.Since(start), len(requests), schedules)
	log.Debug("Computed schedule", "peak_demand", scheduler.PeakDemand(schedules))
	return formatter.Format(opts.format, schedules, nil, day, fmtOpts)
}

// scheduleDay builds the day for the given date in loc, defaulting to today there.
func scheduleDay(date string, loc *time.Location) (*models.ScheduleContext, error) {
	d, err := parser.ParseDate(date, time.Now().In(loc))
	if err != nil {
		return nil, err
	}
	return calendar.NewScheduleContext(d, loc), nil
}
