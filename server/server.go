// Package server exposes the staffing engine over HTTP.
package server

import (
	"agent-staffing/calendar"
	customerrors "agent-staffing/errors"
	"agent-staffing/formatter"
	"agent-staffing/logger"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"agent-staffing/parser"
	"agent-staffing/scheduler"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 10 << 20

// Defaults are used for request fields the client leaves out.
type Defaults struct {
	Input       string
	Timezone    string
	Utilization float64
}

type Server struct {
	log logger.Logger
	now func() time.Time

	mu       sync.RWMutex
	defaults Defaults
}

func New(defaults Defaults, log logger.Logger) *Server {
	return &Server{log: log, now: time.Now, defaults: defaults}
}

// SetDefaults replaces the request defaults, e.g. after a configuration reload.
func (s *Server) SetDefaults(d Defaults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = d
}

func (s *Server) currentDefaults() Defaults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/api/schedule", s.handleSchedule)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

type scheduleRequest struct {
	InputFile   string   `json:"input_file"`
	CSV         string   `json:"csv"`
	Utilization *float64 `json:"utilization"`
	Capacity    *int     `json:"capacity"`
	Timezone    string   `json:"timezone"`
	Date        string   `json:"date"`
	ShowUTC     bool     `json:"show_utc"`
}

type customerInfo struct {
	Name      string `json:"name"`
	Priority  int    `json:"priority"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Calls     int    `json:"calls"`
	Duration  int    `json:"duration"`
}

type scheduleResponse struct {
	RunID string `json:"run_id"`
	formatter.Report
	Customers  []customerInfo `json:"customers"`
	PeakDemand int            `json:"peak_demand"`
	Warnings   []string       `json:"warnings"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var body scheduleRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	resp, err := s.schedule(body)
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "Internal error: " + msg
		}
		s.log.Warn("Schedule request failed", "request_id", middleware.GetReqID(r.Context()), "status", status, "error", err)
		respondError(w, status, msg)
		return
	}

	s.log.Info("Schedule computed",
		"run_id", resp.RunID,
		"request_id", middleware.GetReqID(r.Context()),
		"customers", len(resp.Customers),
		"hours", len(resp.Schedules),
		"peak_demand", resp.PeakDemand,
	)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) schedule(body scheduleRequest) (*scheduleResponse, error) {
	defaults := s.currentDefaults()

	utilization := defaults.Utilization
	if body.Utilization != nil {
		utilization = *body.Utilization
	}
	if err := parser.ValidateUtilization(utilization); err != nil {
		return nil, err
	}
	if body.Capacity != nil {
		if err := parser.ValidateCapacity(*body.Capacity); err != nil {
			return nil, err
		}
	}

	tzName := body.Timezone
	if tzName == "" {
		tzName = defaults.Timezone
	}
	loc, err := parser.ValidateTimezone(tzName)
	if err != nil {
		return nil, err
	}
	date, err := parser.ParseDate(body.Date, s.now().In(loc))
	if err != nil {
		return nil, err
	}
	day := calendar.NewScheduleContext(date, loc)
	metrics.ObserveDay(day)

	requests, warnings, err := s.parse(body, defaults)
	if err != nil {
		return nil, err
	}

	resp := &scheduleResponse{
		RunID:     uuid.NewString(),
		Customers: make([]customerInfo, len(requests)),
		Warnings:  warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	for i, req := range requests {
		resp.Customers[i] = customerInfo{
			Name:      req.Name,
			Priority:  req.Priority,
			StartHour: req.StartHour,
			EndHour:   req.EndHour,
			Calls:     req.NumberOfCalls,
			Duration:  req.AverageCallDurationSeconds,
		}
	}

	opts := formatter.Options{ShowUTC: body.ShowUTC}
	start := time.Now()
	if body.Capacity != nil {
		alloc := scheduler.Allocate(requests, *body.Capacity, utilization, day)
		metrics.ObserveAllocation(time.Since(start), requests, scheduler.ComputeSchedule(requests, utilization, day), alloc)
		resp.Report = formatter.BuildReport(alloc.Schedules, alloc, day, opts)
		resp.PeakDemand = alloc.PeakDemand
		return resp, nil
	}

	schedules := scheduler.ComputeSchedule(requests, utilization, day)
	metrics.ObserveSchedule(time.Since(start), len(requests), schedules)
	resp.Report = formatter.BuildReport(schedules, nil, day, opts)
	resp.PeakDemand = resp.Summary.PeakTotalAgents
	return resp, nil
}

// parse reads inline CSV when given, otherwise the named or default input file.
func (s *Server) parse(body scheduleRequest, defaults Defaults) ([]models.CustomerRequest, []string, error) {
	path := defaults.Input
	if body.CSV == "" && body.InputFile != "" {
		var err error
		if path, err = resolveInputFile(body.InputFile, defaults.Input); err != nil {
			return nil, nil, err
		}
	}

	start := time.Now()
	var (
		requests []models.CustomerRequest
		warnings []string
		err      error
	)
	if body.CSV != "" {
		requests, warnings, err = parser.Parse(strings.NewReader(body.CSV))
	} else {
		requests, warnings, err = parser.ParseFile(path)
	}
	metrics.ObserveParse(time.Since(start), len(requests), len(warnings), err)
	return requests, warnings, err
}

// resolveInputFile places a client supplied file name in the directory of the
// default input. Absolute names and names leaving that directory are rejected.
func resolveInputFile(name, defaultInput string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", &customerrors.ValidationError{Field: "input_file", Value: name, Err: customerrors.ErrInvalidInputFile}
	}
	return filepath.Join(filepath.Dir(defaultInput), name), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	var (
		verr   *customerrors.ValidationError
		perr   *customerrors.ParseError
		csvErr *csv.ParseError
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.As(err, &verr), errors.As(err, &perr), errors.As(err, &csvErr), errors.Is(err, customerrors.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
