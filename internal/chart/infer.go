package chart

import (
	"context"
	"fmt"
	"strings"
)

// Generator matches the nl2sql generation seam; redeclared here so the
// shaper does not depend on the synthesis package.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	SourceDirective = "directive"
	SourceInferred  = "inferred"
	SourceFallback  = "fallback"
)

const previewPairs = 2

// Infer asks the backend for a chart type using a short preview of the data.
// Responses outside {bar, line, pie} fall back to pie. The returned source
// tells whether the backend's suggestion was usable.
func Infer(ctx context.Context, generator Generator, labels []string, values []float64) (Type, string, error) {
	if generator == nil {
		return TypePie, SourceFallback, fmt.Errorf("generator is required")
	}

	response, err := generator.Generate(ctx, inferencePrompt(labels, values))
	if err != nil {
		return "", SourceFallback, fmt.Errorf("infer chart type: %w", err)
	}

	suggested := Type(strings.ToLower(strings.TrimSpace(response)))
	if !suggested.Valid() {
		return TypePie, SourceFallback, nil
	}
	return suggested, SourceInferred, nil
}

func inferencePrompt(labels []string, values []float64) string {
	n := len(labels)
	if n > previewPairs {
		n = previewPairs
	}
	pairs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, fmt.Sprintf("(%q, %g)", labels[i], values[i]))
	}

	var b strings.Builder
	b.WriteString("Suggest a chart type (bar, line, pie) for data with columns 'label' and 'value': [")
	b.WriteString(strings.Join(pairs, ", "))
	b.WriteString("].\n")
	b.WriteString("- Use pie for distributions (e.g. status, type breakdowns).\n")
	b.WriteString("- Use bar for comparisons (e.g. counts by employee).\n")
	b.WriteString("- Use line for trends over time.\n")
	b.WriteString("Return only the chart type.")
	return b.String()
}
