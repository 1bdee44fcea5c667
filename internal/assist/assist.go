// Package assist answers conversational questions: it reuses the dashboard
// analysis pipeline for the data, then makes a single generation call to
// phrase a one-sentence summary. The SQL itself never appears in the answer.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/optiflow/optiflow/internal/dashboard"
	"github.com/optiflow/optiflow/internal/nl2sql"
)

type Service struct {
	Pipeline  *dashboard.Service
	Generator nl2sql.Generator
}

type Answer struct {
	Summary string    `json:"summary"`
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"`
}

func (s *Service) Answer(ctx context.Context, question string, history []nl2sql.Turn) (Answer, error) {
	if s.Pipeline == nil || s.Generator == nil {
		return Answer{}, fmt.Errorf("pipeline and generator are required")
	}

	analysis, err := s.Pipeline.Analyze(ctx, dashboard.Request{Prompt: question, History: history})
	if err != nil {
		return Answer{}, err
	}

	raw, err := s.Generator.Generate(ctx, summaryPrompt(analysis))
	if err != nil {
		return Answer{}, fmt.Errorf("generate summary: %w", err)
	}
	summary := strings.TrimSpace(raw)
	if summary == "" {
		return Answer{}, fmt.Errorf("backend returned an empty summary")
	}

	return Answer{
		Summary: summary,
		Labels:  analysis.Labels,
		Values:  analysis.Values,
	}, nil
}

func summaryPrompt(analysis dashboard.Analysis) string {
	var b strings.Builder
	b.WriteString("You are a senior analyst briefing a business user.\n")
	b.WriteString("Question: " + analysis.Title + "\n")
	b.WriteString("Query result as (label, value) pairs:\n")
	for i := range analysis.Labels {
		b.WriteString(fmt.Sprintf("- (%s, %g)\n", analysis.Labels[i], analysis.Values[i]))
	}
	b.WriteString("Write exactly one clear sentence summarizing the result. ")
	b.WriteString("No SQL, no jargon, no preamble.")
	return b.String()
}
