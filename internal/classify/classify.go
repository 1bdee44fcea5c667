// Package classify decides which column of a two-column query result is the
// textual label and which is the numeric value.
package classify

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrEmptyResult means the query ran fine but matched no data. Kept
	// distinct from MalformedResultError so callers can word the two cases
	// differently.
	ErrEmptyResult = errors.New("query returned no rows")

	// ErrAmbiguousColumns means neither column coerces to a number.
	ErrAmbiguousColumns = errors.New("one column must be numeric (value) and the other non-numeric (label)")
)

// MalformedResultError reports a row that does not have exactly two values.
type MalformedResultError struct {
	Row     int
	Columns int
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("result row %d has %d columns, want exactly 2", e.Row, e.Columns)
}

// Result holds index-aligned parallel sequences, one entry per input row,
// in the order the query returned them. Ordering is the query author's
// responsibility; no re-sorting happens here.
type Result struct {
	Labels []string
	Values []float64
}

// Classify orients a raw two-column result set. Coercion is attempted in a
// fixed order: column 0 as the value column first, then column 1. The first
// orientation that coerces across every row wins.
func Classify(rows [][]any) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptyResult
	}
	for i, row := range rows {
		if len(row) != 2 {
			return Result{}, &MalformedResultError{Row: i, Columns: len(row)}
		}
	}

	if result, ok := orient(rows, 0, 1); ok {
		return result, nil
	}
	if result, ok := orient(rows, 1, 0); ok {
		return result, nil
	}
	return Result{}, ErrAmbiguousColumns
}

func orient(rows [][]any, valueCol, labelCol int) (Result, bool) {
	labels := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		value, ok := toFloat(row[valueCol])
		if !ok {
			return Result{}, false
		}
		labels = append(labels, toString(row[labelCol]))
		values = append(values, value)
	}
	return Result{Labels: labels, Values: values}, true
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case []byte:
		return parseFloat(string(typed))
	case string:
		return parseFloat(typed)
	default:
		return 0, false
	}
}

func parseFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func toString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	default:
		return fmt.Sprintf("%v", value)
	}
}
