package nl2sql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func fixedClock(t *testing.T, value string) Clock {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse clock value: %v", err)
	}
	return func() time.Time { return parsed }
}

func TestSynthesizeBuildsPromptWithSchemaAndDates(t *testing.T) {
	generator := &stubGenerator{response: "SELECT status, COUNT(*) FROM leave_requests GROUP BY status"}
	synthesizer := NewSynthesizer(generator, fixedClock(t, "2026-08-31"))

	got, err := synthesizer.Synthesize(context.Background(), Request{
		Question:   "leave requests by status",
		LiveTables: []string{"employees", "leave_requests"},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got != "SELECT status, COUNT(*) FROM leave_requests GROUP BY status" {
		t.Fatalf("Synthesize() = %q", got)
	}
	if len(generator.prompts) != 1 {
		t.Fatalf("generate calls = %d, want exactly 1", len(generator.prompts))
	}

	prompt := generator.prompts[0]
	if !strings.Contains(prompt, `"leave requests by status"`) {
		t.Fatalf("prompt missing question: %q", prompt)
	}
	if !strings.Contains(prompt, "CREATE TABLE employees") {
		t.Fatalf("prompt missing schema ddl: %q", prompt)
	}
	if !strings.Contains(prompt, "Available tables: employees, leave_requests") {
		t.Fatalf("prompt missing live table list: %q", prompt)
	}
	if !strings.Contains(prompt, "Current date: 2026-08-31, previous day: 2026-08-30") {
		t.Fatalf("prompt missing clock-derived dates: %q", prompt)
	}
	if !strings.Contains(prompt, "exactly two columns") {
		t.Fatalf("prompt missing two-column rule: %q", prompt)
	}
}

func TestSynthesizeIncludesHistoryOldestFirst(t *testing.T) {
	generator := &stubGenerator{response: "SELECT 1"}
	synthesizer := NewSynthesizer(generator, fixedClock(t, "2026-08-31"))

	_, err := synthesizer.Synthesize(context.Background(), Request{
		Question: "and for Project Beta?",
		History: []Turn{
			{Role: "user", Content: "hours per employee on Project Alpha"},
			{Role: "assistant", Content: "Carol White logged the most hours."},
		},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	prompt := generator.prompts[0]
	first := strings.Index(prompt, "user: hours per employee on Project Alpha")
	second := strings.Index(prompt, "assistant: Carol White logged the most hours.")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("history not rendered oldest first: %q", prompt)
	}
}

func TestSynthesizeStripsMarkdownFence(t *testing.T) {
	generator := &stubGenerator{response: "```sql\nSELECT name, leave_balance FROM employees\n```"}
	synthesizer := NewSynthesizer(generator, fixedClock(t, "2026-08-31"))

	got, err := synthesizer.Synthesize(context.Background(), Request{Question: "leave balances"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got != "SELECT name, leave_balance FROM employees" {
		t.Fatalf("Synthesize() = %q", got)
	}
}

func TestSynthesizeEmptyResponse(t *testing.T) {
	generator := &stubGenerator{response: "```sql\n```"}
	synthesizer := NewSynthesizer(generator, fixedClock(t, "2026-08-31"))

	_, err := synthesizer.Synthesize(context.Background(), Request{Question: "anything"})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("Synthesize() error = %v, want ErrEmptyQuery", err)
	}
}

func TestSynthesizeRejectsBlankQuestion(t *testing.T) {
	synthesizer := NewSynthesizer(&stubGenerator{response: "SELECT 1"}, nil)
	if _, err := synthesizer.Synthesize(context.Background(), Request{Question: "   "}); err == nil {
		t.Fatal("Synthesize() expected error for blank question")
	}
}

func TestStripMarkdownSQL(t *testing.T) {
	cases := map[string]string{
		"```sql\nSELECT 1;\n```": "SELECT 1;",
		"```\nSELECT 2\n```":     "SELECT 2",
		"  SELECT 3  ":           "SELECT 3",
	}
	for input, want := range cases {
		if got := StripMarkdownSQL(input); got != want {
			t.Fatalf("StripMarkdownSQL(%q) = %q, want %q", input, got, want)
		}
	}
}
