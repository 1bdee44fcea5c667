// Package nl2sql turns natural-language questions about the HR dataset into
// candidate SQL queries via an external text-generation backend.
package nl2sql

import (
	"context"
	"errors"
)

// ErrEmptyQuery is returned when the backend produced nothing usable as SQL.
var ErrEmptyQuery = errors.New("synthesis produced an empty query")

// Generator is the single seam to the non-deterministic text-generation
// backend. It must be invoked exactly once per need; callers do not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Turn is one prior exchange of a conversation, oldest first.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything synthesis needs besides the schema registry,
// which is compiled in.
type Request struct {
	Question   string
	History    []Turn
	LiveTables []string
}
