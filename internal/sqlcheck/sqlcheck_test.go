package sqlcheck

import (
	"errors"
	"reflect"
	"testing"
)

var liveTables = []string{"employees", "projects", "project_assignments", "presence", "leave_requests", "activity_reports"}

func TestReferencedTablesDeduplicatesInFirstAppearanceOrder(t *testing.T) {
	sqlText := `SELECT e.name, COUNT(*) FROM employees e
		JOIN project_assignments pa ON pa.employee_id = e.employee_id
		JOIN Employees m ON m.employee_id = e.manager_id
		GROUP BY e.name`
	got := ReferencedTables(sqlText)
	want := []string{"employees", "project_assignments"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReferencedTables() = %v, want %v", got, want)
	}
}

func TestReferencedTablesIgnoresColumnKeywords(t *testing.T) {
	got := ReferencedTables(`SELECT status, COUNT(*) FROM leave_requests GROUP BY status`)
	want := []string{"leave_requests"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReferencedTables() = %v, want %v", got, want)
	}
}

func TestValidateAcceptsSelectOverLiveTables(t *testing.T) {
	sqlText := `SELECT name, leave_balance FROM employees ORDER BY leave_balance DESC`
	if err := Validate(sqlText, liveTables, false); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsMissingTablesSorted(t *testing.T) {
	sqlText := `SELECT s.name, COUNT(*) FROM salaries s JOIN benefits b ON b.id = s.id GROUP BY s.name`
	err := Validate(sqlText, liveTables, false)
	var schemaErr *SchemaReferenceError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Validate() error = %v, want SchemaReferenceError", err)
	}
	want := []string{"benefits", "salaries"}
	if !reflect.DeepEqual(schemaErr.Missing, want) {
		t.Fatalf("Missing = %v, want %v", schemaErr.Missing, want)
	}
}

func TestValidateMissingContainsOnlyAbsentTables(t *testing.T) {
	sqlText := `SELECT e.name, COUNT(*) FROM employees e JOIN salaries s ON s.employee_id = e.employee_id GROUP BY e.name`
	err := Validate(sqlText, liveTables, false)
	var schemaErr *SchemaReferenceError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Validate() error = %v, want SchemaReferenceError", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"salaries"}) {
		t.Fatalf("Missing = %v", schemaErr.Missing)
	}
}

func TestValidateRejectsDestructiveVerbs(t *testing.T) {
	statements := map[string]string{
		"INSERT INTO employees (name) VALUES ('X')": "INSERT",
		"update employees SET leave_balance = 0":    "UPDATE",
		"DELETE FROM employees":                     "DELETE",
		"DROP TABLE employees":                      "DROP",
		"Alter TABLE employees ADD COLUMN x TEXT":   "ALTER",
	}
	for sqlText, verb := range statements {
		err := Validate(sqlText, liveTables, false)
		var destructiveErr *DestructiveStatementError
		if !errors.As(err, &destructiveErr) {
			t.Fatalf("Validate(%q) error = %v, want DestructiveStatementError", sqlText, err)
		}
		if destructiveErr.Verb != verb {
			t.Fatalf("Verb = %q, want %q", destructiveErr.Verb, verb)
		}
	}
}

func TestValidateAllowsDestructiveWhenOptedIn(t *testing.T) {
	if err := Validate("DELETE FROM employees", liveTables, true); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateStillChecksSchemaWhenDestructiveAllowed(t *testing.T) {
	err := Validate("DELETE FROM salaries", liveTables, true)
	var schemaErr *SchemaReferenceError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Validate() error = %v, want SchemaReferenceError", err)
	}
}

func TestValidateRejectsEmptySQL(t *testing.T) {
	if err := Validate("   ", liveTables, false); err == nil {
		t.Fatal("Validate() expected error for blank sql")
	}
}
