package nl2sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/optiflow/optiflow/internal/observability"
	"github.com/optiflow/optiflow/internal/schema"
)

// Clock supplies the reference instant for relative-date phrasing. Injected
// so that synthesis is deterministic under test instead of re-deriving an
// ambiguous "now" inside the prompt.
type Clock func() time.Time

// Synthesizer produces exactly one candidate SQL query per request. It never
// retries and never executes anything.
type Synthesizer struct {
	Generator Generator
	Clock     Clock
}

func NewSynthesizer(generator Generator, clock Clock) *Synthesizer {
	if clock == nil {
		clock = time.Now
	}
	return &Synthesizer{Generator: generator, Clock: clock}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	if s.Generator == nil {
		return "", fmt.Errorf("generator is required")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", fmt.Errorf("question is required")
	}

	start := time.Now()
	raw, err := s.Generator.Generate(ctx, s.buildPrompt(question, req.History, req.LiveTables))
	if err != nil {
		return "", fmt.Errorf("generate query: %w", err)
	}
	observability.ObserveSynthesisDuration(time.Since(start))

	query := StripMarkdownSQL(raw)
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}

func (s *Synthesizer) buildPrompt(question string, history []Turn, liveTables []string) string {
	now := s.Clock()
	currentDate := now.Format("2006-01-02")
	previousDay := now.AddDate(0, 0, -1).Format("2006-01-02")

	var b strings.Builder
	b.WriteString("Using the following SQLite database schema, generate a single SQLite query answering: \"")
	b.WriteString(question)
	b.WriteString("\".\n\n")
	b.WriteString(schema.DDL())
	b.WriteString("\nRules:\n")
	b.WriteString("- Available tables: " + strings.Join(liveTables, ", ") + ". Only use existing tables.\n")
	b.WriteString("- Return only the SQL query, no explanations or code blocks.\n")
	b.WriteString("- The result must have exactly two columns: a non-numeric label (e.g. name, status) and a numeric value (e.g. COUNT, SUM).\n")
	b.WriteString("- Use JOINs and aggregations as needed.\n")
	b.WriteString("- For time-related questions use date('now') or date('now', '-1 day'). Current date: " + currentDate + ", previous day: " + previousDay + ".\n")
	b.WriteString("- For pattern questions include employee names in the label column.\n")
	b.WriteString("- If the question is ambiguous (e.g. 'team patterns' without a project), analyze all employees against the most recently created project.\n")

	if len(history) > 0 {
		b.WriteString("\nConversation so far, oldest first. Use it to resolve follow-up references:\n")
		for _, turn := range history {
			b.WriteString(turn.Role + ": " + turn.Content + "\n")
		}
	}
	return b.String()
}

// StripMarkdownSQL removes a surrounding markdown code fence, if any, from a
// backend response.
func StripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
