// Package sqlite opens and bootstraps the HR SQLite database. The schema,
// triggers, and demo seed belong to the persistence layer: the query
// pipeline only ever reads what this package provisions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/optiflow/optiflow/internal/schema"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Bootstrapped reports whether the HR schema is already present.
func Bootstrapped(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'employees'`,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check bootstrap state: %w", err)
	}
	return count > 0, nil
}

// Bootstrap creates the six HR tables, their indexes, and the business-rule
// triggers: at most one CEO system-wide, and leave-balance deduction on the
// Pending/Rejected to Approved transition only, so re-approval never deducts
// twice.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	statements := make([]string, 0, 16)
	for _, table := range schema.Tables() {
		statements = append(statements, table.DDL())
	}
	statements = append(statements,
		`CREATE INDEX idx_employees_id ON employees(employee_id)`,
		`CREATE INDEX idx_assignments_employee ON project_assignments(employee_id)`,
		`CREATE INDEX idx_presence_employee_date ON presence(employee_id, date)`,
		`CREATE INDEX idx_reports_employee_date ON activity_reports(employee_id, date)`,
		`CREATE TRIGGER enforce_single_ceo
		BEFORE INSERT ON employees
		FOR EACH ROW
		BEGIN
			SELECT CASE
				WHEN NEW.role = 'CEO' AND EXISTS (SELECT 1 FROM employees WHERE role = 'CEO')
				THEN RAISE(ABORT, 'Only one CEO is allowed.')
			END;
		END`,
		`CREATE TRIGGER update_leave_balance
		AFTER UPDATE ON leave_requests
		FOR EACH ROW
		WHEN NEW.status = 'Approved' AND OLD.status != 'Approved'
		BEGIN
			UPDATE employees
			SET leave_balance = leave_balance - (
				(julianday(NEW.end_date) - julianday(NEW.start_date)) + 1
			)
			WHERE employee_id = NEW.employee_id
			AND leave_balance >= (julianday(NEW.end_date) - julianday(NEW.start_date)) + 1;
		END`,
	)

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("bootstrap statement failed: %w", err)
		}
	}
	return nil
}

// Seed inserts a small demo dataset. Relative dates are derived from the
// injected clock so seeded data lines up with what the synthesizer's
// date('now') expressions will match.
func Seed(ctx context.Context, db *sql.DB, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	currentDate := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	nextWeekStart := now.AddDate(0, 0, 7).Format("2006-01-02")
	nextWeekEnd := now.AddDate(0, 0, 9).Format("2006-01-02")

	statements := []struct {
		sql  string
		args []any
	}{
		{sql: `INSERT INTO employees (name, email, role, leave_balance, manager_id) VALUES
			('Alice Smith', 'alice@example.com', 'CEO', 20, NULL),
			('Bob Johnson', 'bob@example.com', 'Manager', 20, 1),
			('Carol White', 'carol@example.com', 'Employee', 18, 2),
			('Dave Brown', 'dave@example.com', 'Employee', 15, 2),
			('Eve Davis', 'eve@example.com', 'Employee', 20, 2)`},
		{sql: `INSERT INTO projects (project_name, department) VALUES
			('Project Alpha', 'Engineering'),
			('Project Beta', 'Marketing'),
			('Project Gamma', 'Finance')`},
		{sql: `INSERT INTO project_assignments (employee_id, project_id, start_date) VALUES
			(3, 1, ?), (3, 2, ?), (4, 1, ?), (5, 3, ?)`,
			args: []any{currentDate, currentDate, currentDate, currentDate}},
		{sql: `INSERT INTO presence (employee_id, date, status) VALUES
			(3, ?, 'Present'), (4, ?, 'On Leave'), (5, ?, 'Present')`,
			args: []any{yesterday, yesterday, yesterday}},
		{sql: `INSERT INTO leave_requests (employee_id, manager_id, start_date, end_date, type, status) VALUES
			(3, 2, ?, ?, 'Vacation', 'Approved'),
			(4, 2, ?, ?, 'Sick', 'Pending'),
			(5, 2, ?, ?, 'Personal', 'Approved')`,
			args: []any{nextWeekStart, nextWeekEnd, nextWeekStart, nextWeekEnd, nextWeekStart, nextWeekEnd}},
		{sql: `INSERT INTO activity_reports (employee_id, project_id, date, hours, status) VALUES
			(3, 1, ?, 8, 'Approved'),
			(3, 2, ?, 4, 'Submitted'),
			(4, 1, ?, 6, 'Draft'),
			(5, 3, ?, 7, 'Approved')`,
			args: []any{yesterday, yesterday, yesterday, yesterday}},
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement.sql, statement.args...); err != nil {
			return fmt.Errorf("seed statement failed: %w", err)
		}
	}
	return nil
}

// HealthCheck pings the database; used by the readiness endpoint.
func HealthCheck(db *sql.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
