package query

import (
	"context"
	"fmt"
	"time"
)

type Request struct {
	SQL      string
	RowLimit int
}

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// ExecutionError wraps a database rejection of a validated query. Zero-row
// results are not execution errors; they surface later during classification.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

type Engine interface {
	Execute(ctx context.Context, request Request) (Result, error)
	ListTables(ctx context.Context) ([]string, error)
}
