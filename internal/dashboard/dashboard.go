// Package dashboard runs the full question-to-chart pipeline: synthesize,
// validate, execute, classify, shape. Each stage fails fast with its own
// typed error and nothing is retried; a failed run returns no partial chart.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/optiflow/optiflow/internal/archive"
	"github.com/optiflow/optiflow/internal/chart"
	"github.com/optiflow/optiflow/internal/classify"
	"github.com/optiflow/optiflow/internal/nl2sql"
	"github.com/optiflow/optiflow/internal/observability"
	"github.com/optiflow/optiflow/internal/query"
	"github.com/optiflow/optiflow/internal/sqlcheck"
)

type Service struct {
	Synthesizer *nl2sql.Synthesizer
	Engine      query.Engine
	Generator   chart.Generator
	Recorder    *archive.Recorder
	Logger      *slog.Logger
	RowLimit    int
}

type Request struct {
	Prompt           string
	History          []nl2sql.Turn
	AllowDestructive bool
}

// Analysis is the classified outcome of a pipeline run before any chart
// shaping: the directive-stripped title, the executed SQL, and the
// index-aligned label/value sequences.
type Analysis struct {
	Title     string
	SQL       string
	Labels    []string
	Values    []float64
	Directive chart.Type
}

type Dashboard struct {
	Title       string       `json:"title"`
	SQL         string       `json:"sql"`
	ChartType   chart.Type   `json:"chart_type"`
	Chart       chart.Config `json:"chart"`
	AvatarsHTML string       `json:"avatars_html"`
	Labels      []string     `json:"labels"`
	Values      []float64    `json:"values"`
}

// Analyze runs the data half of the pipeline. The chart-type directive is
// stripped first so it reaches neither the synthesized query nor the title.
func (s *Service) Analyze(ctx context.Context, req Request) (Analysis, error) {
	observability.IncrementPipelineRequest()

	directive, title, hasDirective := chart.ExtractDirective(req.Prompt)
	if !hasDirective {
		directive = ""
	}

	liveTables, err := s.Engine.ListTables(ctx)
	if err != nil {
		observability.IncrementPipelineFailure("tables")
		return Analysis{}, fmt.Errorf("list live tables: %w", err)
	}

	sqlText, err := s.Synthesizer.Synthesize(ctx, nl2sql.Request{
		Question:   title,
		History:    req.History,
		LiveTables: liveTables,
	})
	if err != nil {
		observability.IncrementPipelineFailure("synthesize")
		return Analysis{}, err
	}

	if err := sqlcheck.Validate(sqlText, liveTables, req.AllowDestructive); err != nil {
		observability.IncrementPipelineFailure("validate")
		return Analysis{}, err
	}

	result, err := s.Engine.Execute(ctx, query.Request{SQL: sqlText, RowLimit: s.RowLimit})
	if err != nil {
		observability.IncrementPipelineFailure("execute")
		return Analysis{}, err
	}

	classified, err := classify.Classify(result.Rows)
	if err != nil {
		observability.IncrementPipelineFailure("classify")
		return Analysis{}, err
	}
	observability.ObserveQueryResultRows(len(classified.Labels))

	return Analysis{
		Title:     title,
		SQL:       sqlText,
		Labels:    classified.Labels,
		Values:    classified.Values,
		Directive: directive,
	}, nil
}

// Generate runs Analyze and shapes the outcome into a chart specification
// plus avatar markup. An explicit directive wins verbatim; otherwise the
// type is inferred from a short preview, falling back to pie.
func (s *Service) Generate(ctx context.Context, req Request) (Dashboard, error) {
	analysis, err := s.Analyze(ctx, req)
	if err != nil {
		return Dashboard{}, err
	}

	chartType := analysis.Directive
	source := chart.SourceDirective
	if chartType == "" {
		chartType, source, err = chart.Infer(ctx, s.Generator, analysis.Labels, analysis.Values)
		if err != nil {
			observability.IncrementPipelineFailure("infer")
			return Dashboard{}, err
		}
	}
	observability.IncrementChartTypeResolution(source)

	dash := Dashboard{
		Title:       analysis.Title,
		SQL:         analysis.SQL,
		ChartType:   chartType,
		Chart:       chart.Build(chartType, analysis.Labels, analysis.Values, analysis.Title),
		AvatarsHTML: chart.AvatarMarkup(analysis.Labels),
		Labels:      analysis.Labels,
		Values:      analysis.Values,
	}

	if s.Recorder != nil {
		if err := s.Recorder.Record(ctx, archive.Run{
			Question:  analysis.Title,
			SQL:       analysis.SQL,
			ChartType: string(chartType),
			Labels:    analysis.Labels,
			Values:    analysis.Values,
		}); err != nil && s.Logger != nil {
			s.Logger.WarnContext(ctx, "run archive failed", slog.Any("error", err))
		}
	}
	return dash, nil
}
