package errors

import (
	"errors"
	"fmt"
)

// Row-level and aggregation sentinels. Use errors.Is to classify.
var (
	// ErrMalformedRow marks a source row without a usable fiscal year.
	ErrMalformedRow = errors.New("malformed row: missing fiscal year")
	// ErrInvalidDateJoin marks a row whose appointment date is after its fiscal year end.
	ErrInvalidDateJoin = errors.New("appointment date after fiscal year end")
	// ErrInvalidValue marks a row with a field that does not parse.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrEmptyGroup is returned when a mean is requested over zero records.
	ErrEmptyGroup = errors.New("mean of empty group is undefined")
	// ErrNoInput is returned when no source produced any row.
	ErrNoInput = errors.New("no input rows")
)

// RowError describes why a single source row was dropped.
type RowError struct {
	Source string
	Line   int
	Field  string
	Kind   error
	Cause  error
}

func (e *RowError) Error() string {
	msg := fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches the row's kind sentinel.
func (e *RowError) Is(target error) bool {
	return e.Kind == target
}

func (e *RowError) Unwrap() error {
	return e.Cause
}

// NewRowError creates a row error of the given kind.
func NewRowError(source string, line int, kind error, field string, cause error) *RowError {
	return &RowError{
		Source: source,
		Line:   line,
		Field:  field,
		Kind:   kind,
		Cause:  cause,
	}
}
