// Package sqlcheck statically screens synthesized SQL before execution.
// It never runs the statement: checks are purely textual so a bad query is
// rejected without touching the database.
package sqlcheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SchemaReferenceError reports tables referenced by a query that are not in
// the live table set. Missing is sorted and contains exactly the absent ones.
type SchemaReferenceError struct {
	Missing []string
}

func (e *SchemaReferenceError) Error() string {
	return fmt.Sprintf("query references non-existent tables: %s", strings.Join(e.Missing, ", "))
}

// DestructiveStatementError reports a statement whose leading verb mutates
// data. Mutation is denied by default regardless of what the synthesizer
// produced; the caller must opt in per request.
type DestructiveStatementError struct {
	Verb string
}

func (e *DestructiveStatementError) Error() string {
	return fmt.Sprintf("destructive statement rejected: leading verb %q", e.Verb)
}

var (
	tableRefPattern  = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	destructiveVerbs = map[string]bool{
		"insert": true,
		"update": true,
		"delete": true,
		"drop":   true,
		"alter":  true,
	}
)

// ReferencedTables extracts every table name pulled in via FROM or JOIN,
// deduplicated, in first-appearance order.
func ReferencedTables(sqlText string) []string {
	matches := tableRefPattern.FindAllStringSubmatch(sqlText, -1)
	seen := map[string]bool{}
	tables := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.ToLower(match[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		tables = append(tables, name)
	}
	return tables
}

// Validate rejects statements with a mutating leading verb (unless
// allowDestructive is set) and statements referencing tables outside the
// live set.
func Validate(sqlText string, liveTables []string, allowDestructive bool) error {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return fmt.Errorf("sql is required")
	}

	if !allowDestructive {
		verb := leadingVerb(trimmed)
		if destructiveVerbs[verb] {
			return &DestructiveStatementError{Verb: strings.ToUpper(verb)}
		}
	}

	live := map[string]bool{}
	for _, name := range liveTables {
		live[strings.ToLower(name)] = true
	}

	var missing []string
	for _, name := range ReferencedTables(trimmed) {
		if !live[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaReferenceError{Missing: missing}
	}
	return nil
}

func leadingVerb(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
