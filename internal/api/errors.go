package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/optiflow/optiflow/internal/classify"
	"github.com/optiflow/optiflow/internal/nl2sql"
	"github.com/optiflow/optiflow/internal/query"
	"github.com/optiflow/optiflow/internal/sqlcheck"
)

// writePipelineError maps each typed pipeline failure onto its own stable
// error code so clients can react differently: re-prompt, show "no data",
// or suggest rephrasing. Nothing falls through to a generic code unless the
// error is genuinely untyped.
func writePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	var schemaErr *sqlcheck.SchemaReferenceError
	var destructiveErr *sqlcheck.DestructiveStatementError
	var execErr *query.ExecutionError
	var malformedErr *classify.MalformedResultError

	switch {
	case errors.Is(err, nl2sql.ErrEmptyQuery):
		writeError(ctx, w, http.StatusBadGateway, "EMPTY_QUERY", "the backend produced no usable query; try rephrasing", true, nil)
	case errors.As(err, &schemaErr):
		writeError(ctx, w, http.StatusBadRequest, "INVALID_SCHEMA_REFERENCE", schemaErr.Error(), false, map[string]any{"missing_tables": schemaErr.Missing})
	case errors.As(err, &destructiveErr):
		writeError(ctx, w, http.StatusForbidden, "DESTRUCTIVE_STATEMENT_REJECTED", destructiveErr.Error(), false, map[string]any{"verb": destructiveErr.Verb})
	case errors.As(err, &execErr):
		writeError(ctx, w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", "the database rejected the generated query", false, map[string]any{"details": execErr.Err.Error()})
	case errors.Is(err, classify.ErrEmptyResult):
		writeError(ctx, w, http.StatusNotFound, "EMPTY_RESULT", "no data available for this question", false, nil)
	case errors.As(err, &malformedErr):
		writeError(ctx, w, http.StatusUnprocessableEntity, "MALFORMED_RESULT", malformedErr.Error(), false, nil)
	case errors.Is(err, classify.ErrAmbiguousColumns):
		writeError(ctx, w, http.StatusUnprocessableEntity, "AMBIGUOUS_COLUMNS", classify.ErrAmbiguousColumns.Error(), false, nil)
	default:
		writeError(ctx, w, http.StatusBadGateway, "PIPELINE_FAILED", err.Error(), true, nil)
	}
}
