package chart

import (
	"regexp"
	"strings"
)

var directivePatterns = []struct {
	chartType Type
	pattern   *regexp.Regexp
}{
	{TypePie, regexp.MustCompile(`(?i)as a pie chart`)},
	{TypeBar, regexp.MustCompile(`(?i)as a bar chart`)},
	{TypeLine, regexp.MustCompile(`(?i)as a line chart`)},
}

// ExtractDirective pulls an explicit chart-type phrase out of the request
// text. The phrase is removed so it pollutes neither the synthesized query
// nor the chart title; stripping is idempotent on the remaining text.
func ExtractDirective(prompt string) (Type, string, bool) {
	for _, candidate := range directivePatterns {
		if candidate.pattern.MatchString(prompt) {
			stripped := candidate.pattern.ReplaceAllString(prompt, "")
			return candidate.chartType, normalizeSpace(stripped), true
		}
	}
	return "", normalizeSpace(prompt), false
}

func normalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
