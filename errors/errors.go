package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid run parameter such as a timezone or date.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount    = fmt.Errorf("invalid field count")
	ErrMissingColumn        = fmt.Errorf("missing required column")
	ErrEmptyInput           = fmt.Errorf("empty input, no header row")
	ErrEmptyName            = fmt.Errorf("customer name cannot be empty")
	ErrInvalidDuration      = fmt.Errorf("invalid duration")
	ErrInvalidStartTime     = fmt.Errorf("invalid start time")
	ErrInvalidEndTime       = fmt.Errorf("invalid end time")
	ErrInvalidTimeWindow    = fmt.Errorf("start time must be before end time")
	ErrInvalidNumberOfCalls = fmt.Errorf("invalid number of calls")
	ErrInvalidPriority      = fmt.Errorf("invalid priority")
	ErrInvalidTimezone      = fmt.Errorf("unknown timezone, use IANA names like America/Los_Angeles")
	ErrInvalidDate          = fmt.Errorf("expected YYYY-MM-DD")
	ErrInvalidUtilization   = fmt.Errorf("utilization must be in (0, 1]")
	ErrInvalidCapacity      = fmt.Errorf("capacity must be positive")
	ErrInvalidFormat        = fmt.Errorf("format must be one of: text, json, csv, yaml")
	ErrInvalidInputFile     = fmt.Errorf("input file must be a relative path inside the input directory")
)
