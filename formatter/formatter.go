package formatter

import (
	"agent-staffing/errors"
	"agent-staffing/models"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Output kinds accepted by Format.
const (
	Text = "text"
	JSON = "json"
	CSV  = "csv"
	YAML = "yaml"
)

// Kinds lists the supported output formats.
var Kinds = []string{Text, JSON, CSV, YAML}

// ValidateKind reports an error unless kind names a supported output format.
func ValidateKind(kind string) error {
	if !slices.Contains(Kinds, normalizeKind(kind)) {
		return &errors.ValidationError{Field: "format", Value: kind, Err: errors.ErrInvalidFormat}
	}
	return nil
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// Format renders a run in the requested kind. alloc is nil for unconstrained
// runs and day is nil in simple mode.
func Format(kind string, schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext, opts Options) (string, error) {
	switch normalizeKind(kind) {
	case Text:
		return FormatText(schedules, alloc, day), nil
	case JSON:
		return FormatJSON(schedules, alloc, day, opts)
	case CSV:
		return FormatCSV(schedules, alloc, day)
	case YAML:
		return FormatYAML(schedules, alloc, day, opts)
	default:
		return "", ValidateKind(kind)
	}
}

// FormatText returns the text representation of the schedule
func FormatText(schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext) string {
	var sb strings.Builder

	for _, s := range schedules {
		sb.WriteString(formatTextLine(s, day))
		sb.WriteString("\n")
	}

	if alloc != nil && alloc.HasUnmetDemand() {
		writeCapacityAnalysis(&sb, alloc, day)
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the schedule
func FormatJSON(schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext, opts Options) (string, error) {
	report := BuildReport(schedules, alloc, day, opts)
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// FormatYAML returns the YAML representation of the schedule
func FormatYAML(schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext, opts Options) (string, error) {
	report := BuildReport(schedules, alloc, day, opts)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.String(), nil
}

// FormatCSV returns the CSV representation of the schedule: one row per hour
// and one column per customer. A Utilization column is added for capacity runs.
func FormatCSV(schedules []models.HourlySchedule, alloc *models.CapacityAllocation, day *models.ScheduleContext) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	customers := customerColumns(schedules)
	header := append([]string{"Hour", "Total"}, customers...)
	if alloc != nil {
		header = append(header, "Utilization")
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, s := range schedules {
		if err := writer.Write(csvRow(i, s, customers, alloc, day)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("writing CSV: %w", err)
	}
	return sb.String(), nil
}

func csvRow(i int, s models.HourlySchedule, customers []string, alloc *models.CapacityAllocation, day *models.ScheduleContext) []string {
	row := []string{hourLabel(s.Hour, day), strconv.Itoa(s.TotalAgents())}
	for _, name := range customers {
		row = append(row, strconv.Itoa(s.Agents(name)))
	}
	if alloc != nil {
		u := 0.0
		if i < len(alloc.UtilizationByHour) {
			u = alloc.UtilizationByHour[i]
		}
		row = append(row, strconv.FormatFloat(u, 'f', 3, 64))
	}
	return row
}

// formatTextLine formats a single hour line for text output
func formatTextLine(s models.HourlySchedule, day *models.ScheduleContext) string {
	label := hourLabel(s.Hour, day)
	total := s.TotalAgents()
	if total == 0 {
		return fmt.Sprintf("%s : total=0 ; none", label)
	}

	agents := make(map[string]int, len(s.Customers))
	for _, c := range s.Customers {
		agents[c.Name] = c.Agents
	}

	var parts []string
	for _, name := range getSortedCustomers(agents) {
		parts = append(parts, fmt.Sprintf("%s=%d", name, agents[name]))
	}
	return fmt.Sprintf("%s : total=%d ; %s", label, total, strings.Join(parts, ", "))
}

func writeCapacityAnalysis(sb *strings.Builder, alloc *models.CapacityAllocation, day *models.ScheduleContext) {
	p := message.NewPrinter(language.English)

	sb.WriteString("\n=== Capacity Analysis ===\n")
	sb.WriteString(p.Sprintf("Capacity: %d agents\n", alloc.Capacity))
	sb.WriteString(p.Sprintf("Peak demand: %d agents\n", alloc.PeakDemand))

	sb.WriteString("\nUnmet demand by customer:\n")
	for _, sf := range sortedShortfalls(alloc.UnmetDemand) {
		sb.WriteString(p.Sprintf("  %s [Priority %d]: %d of %d calls unmet (%.1f%%), %d hours affected\n",
			sf.Name, sf.Priority, sf.CallsUnmet, sf.CallsTotal, sf.PercentUnmet, sf.HoursAffected))
	}

	sb.WriteString("\nHourly utilization:\n")
	for i, u := range alloc.UtilizationByHour {
		if i >= len(alloc.Schedules) {
			break
		}
		fmt.Fprintf(sb, "  %s : %.1f%%\n", hourLabel(alloc.Schedules[i].Hour, day), u*100)
	}
}

// sortedShortfalls orders shortfalls by priority, then name.
func sortedShortfalls(unmet map[string]models.Shortfall) []models.Shortfall {
	out := make([]models.Shortfall, 0, len(unmet))
	for name, sf := range unmet {
		sf.Name = name
		out = append(out, sf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// customerColumns returns every customer scheduled in any hour, sorted.
func customerColumns(schedules []models.HourlySchedule) []string {
	seen := make(map[string]int)
	for _, s := range schedules {
		for _, c := range s.Customers {
			seen[c.Name] += c.Agents
		}
	}
	return getSortedCustomers(seen)
}

// getSortedCustomers returns sorted customer names
func getSortedCustomers(customers map[string]int) []string {
	names := make([]string, 0, len(customers))
	for name := range customers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
