package parser

import (
	"agent-staffing/errors"
	"agent-staffing/models"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Column keys after normalisation. The start and end columns match by prefix so
// headers such as StartTimePT or EndTime_ET are accepted.
const (
	colName     = "customername"
	colDuration = "averagecalldurationseconds"
	colStart    = "starttime"
	colEnd      = "endtime"
	colCalls    = "numberofcalls"
	colPriority = "priority"
)

var requiredColumns = []string{colName, colDuration, colStart, colEnd, colCalls, colPriority}

// columnAliases lists the shorter header names in use besides the full ones.
var columnAliases = map[string][]string{
	colName:     {"customername", "customer", "name"},
	colDuration: {"averagecalldurationseconds", "averagecallduration", "durationseconds", "duration"},
	colCalls:    {"numberofcalls", "calls"},
	colPriority: {"priority"},
}

var columnDisplayNames = map[string]string{
	colName:     "CustomerName",
	colDuration: "AverageCallDurationSeconds",
	colStart:    "StartTime",
	colEnd:      "EndTime",
	colCalls:    "NumberOfCalls",
	colPriority: "Priority",
}

// ParseFile opens path and parses it with Parse.
// A missing file yields an error that matches fs.ErrNotExist.
func ParseFile(path string) ([]models.CustomerRequest, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("input file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads customer forecasts from CSV.
//
// The first non-comment row is the header; its column names are matched
// case-insensitively with spaces, underscores and a leading '#' ignored.
// After the header, lines starting with '#' are comments. Times are given as
// "9AM" or "7:00PM"; an end time of 12AM means the end of the day.
//
// Parse returns warnings for conditions that do not stop the run, such as an
// input without data rows or a customer listed twice.
func Parse(r io.Reader) ([]models.CustomerRequest, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var (
		columns  map[string]int
		header   []string
		requests []models.CustomerRequest
		warnings []string
	)
	seen := make(map[string]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if columns == nil {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			cols, missing := mapColumns(record)
			if missing != "" {
				if isComment(record) {
					continue
				}
				return nil, nil, &errors.ParseError{
					Line:   line,
					Record: record,
					Err:    fmt.Errorf("%w: %s", errors.ErrMissingColumn, missing),
				}
			}
			columns, header = cols, record
			continue
		}

		if isComment(record) {
			continue
		}
		if len(record) != len(header) {
			return nil, nil, &errors.ParseError{
				Line:   line,
				Record: record,
				Err:    fmt.Errorf("%w: expected %d, got %d", errors.ErrInvalidFieldCount, len(header), len(record)),
			}
		}

		req, err := parseRecord(record, columns)
		if err != nil {
			return nil, nil, &errors.ParseError{Line: line, Record: record, Err: err}
		}
		if seen[req.Name] {
			warnings = append(warnings, fmt.Sprintf("customer %q appears more than once; line %d replaces the earlier row", req.Name, line))
		}
		seen[req.Name] = true
		requests = append(requests, req)
	}

	if columns == nil {
		return nil, nil, errors.ErrEmptyInput
	}
	if len(requests) == 0 {
		warnings = append(warnings, "CSV file contains no data rows")
	}
	return requests, warnings, nil
}

func isComment(record []string) bool {
	return len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#")
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "#")
	return strings.NewReplacer(" ", "", "_", "").Replace(name)
}

// mapColumns locates every required column in a header row. It returns the
// display name of the first missing column, or "" when all are present.
func mapColumns(record []string) (map[string]int, string) {
	columns := make(map[string]int, len(requiredColumns))
	for i, raw := range record {
		name := normalizeColumn(raw)
		for _, key := range requiredColumns {
			if _, ok := columns[key]; ok {
				continue
			}
			if matchesColumn(key, name) {
				columns[key] = i
				break
			}
		}
	}
	for _, key := range requiredColumns {
		if _, ok := columns[key]; !ok {
			return nil, columnDisplayNames[key]
		}
	}
	return columns, ""
}

func matchesColumn(key, name string) bool {
	if key == colStart || key == colEnd {
		return strings.HasPrefix(name, key)
	}
	return slices.Contains(columnAliases[key], name)
}

func parseRecord(record []string, columns map[string]int) (models.CustomerRequest, error) {
	field := func(key string) string {
		return strings.TrimSpace(record[columns[key]])
	}

	req := models.CustomerRequest{Name: field(colName)}
	if req.Name == "" {
		return req, errors.ErrEmptyName
	}

	var err error
	req.AverageCallDurationSeconds, err = strconv.Atoi(field(colDuration))
	if err != nil {
		return req, fmt.Errorf("%w: %v", errors.ErrInvalidDuration, err)
	}
	if req.AverageCallDurationSeconds <= 0 {
		return req, fmt.Errorf("%w: must be positive, got %d", errors.ErrInvalidDuration, req.AverageCallDurationSeconds)
	}

	req.NumberOfCalls, err = strconv.Atoi(field(colCalls))
	if err != nil {
		return req, fmt.Errorf("%w: %v", errors.ErrInvalidNumberOfCalls, err)
	}
	if req.NumberOfCalls < 0 {
		return req, fmt.Errorf("%w: cannot be negative, got %d", errors.ErrInvalidNumberOfCalls, req.NumberOfCalls)
	}

	req.Priority, err = strconv.Atoi(field(colPriority))
	if err != nil {
		return req, fmt.Errorf("%w: %v", errors.ErrInvalidPriority, err)
	}
	if req.Priority < 1 || req.Priority > 5 {
		return req, fmt.Errorf("%w: must be 1-5, got %d", errors.ErrInvalidPriority, req.Priority)
	}

	req.StartHour, err = ParseTimeToHour(field(colStart))
	if err != nil {
		return req, fmt.Errorf("%w: %v", errors.ErrInvalidStartTime, err)
	}
	req.EndHour, err = ParseTimeToHour(field(colEnd))
	if err != nil {
		return req, fmt.Errorf("%w: %v", errors.ErrInvalidEndTime, err)
	}
	if req.EndHour == 0 {
		req.EndHour = 24
	}
	if req.StartHour >= req.EndHour {
		return req, fmt.Errorf("%w: %s >= %s", errors.ErrInvalidTimeWindow, field(colStart), field(colEnd))
	}
	return req, nil
}
