package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/optiflow/optiflow/internal/query"
)

func TestNewEngineRejectsUnknownDriver(t *testing.T) {
	db, _ := newSQLMock(t)
	if _, err := NewEngine(db, "oracle"); err == nil {
		t.Fatal("NewEngine() expected error for unknown driver")
	}
	if _, err := NewEngine(nil, DriverSQLite); err == nil {
		t.Fatal("NewEngine() expected error for nil db")
	}
}

func TestExecuteWrapsRowLimitAndStripsSemicolons(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM (SELECT name, COUNT(*) FROM employees GROUP BY name) AS q LIMIT 50`,
	)).WillReturnRows(
		sqlmock.NewRows([]string{"name", "count"}).
			AddRow("Alice Smith", int64(3)).
			AddRow("Bob Johnson", int64(2)),
	)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL:      "SELECT name, COUNT(*) FROM employees GROUP BY name;;",
		RowLimit: 50,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !reflect.DeepEqual(result.Columns, []string{"name", "count"}) {
		t.Fatalf("Columns = %v", result.Columns)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("Rows = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "Alice Smith" || result.Rows[0][1] != int64(3) {
		t.Fatalf("Rows[0] = %v", result.Rows[0])
	}
	assertSQLMock(t, mock)
}

func TestExecuteWithoutRowLimitRunsStatementAsIs(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) FROM presence GROUP BY status`)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("Present", int64(2)))

	if _, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT status, COUNT(*) FROM presence GROUP BY status",
	}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestExecuteNormalizesByteSlices(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT type, total FROM t`)).
		WillReturnRows(sqlmock.NewRows([]string{"type", "total"}).AddRow([]byte("Vacation"), int64(4)))

	result, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT type, total FROM t"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Rows[0][0] != "Vacation" {
		t.Fatalf("Rows[0][0] = %#v, want string", result.Rows[0][0])
	}
	assertSQLMock(t, mock)
}

func TestExecuteWrapsDatabaseRejection(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nope FROM employees`)).
		WillReturnError(errors.New("no such column: nope"))

	_, err = engine.Execute(context.Background(), query.Request{SQL: "SELECT nope FROM employees"})
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute() error = %v, want ExecutionError", err)
	}
	assertSQLMock(t, mock)
}

func TestExecuteRejectsBlankSQL(t *testing.T) {
	db, _ := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := engine.Execute(context.Background(), query.Request{SQL: " ; "}); err == nil {
		t.Fatal("Execute() expected error for blank sql")
	}
}

func TestListTablesSQLite(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverSQLite)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("employees").AddRow("projects"))

	tables, err := engine.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"employees", "projects"}) {
		t.Fatalf("ListTables() = %v", tables)
	}
	assertSQLMock(t, mock)
}

func TestListTablesPostgres(t *testing.T) {
	db, mock := newSQLMock(t)
	engine, err := NewEngine(db, DriverPostgres)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`)).
		WillReturnRows(sqlmock.NewRows([]string{"tablename"}).AddRow("employees"))

	tables, err := engine.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"employees"}) {
		t.Fatalf("ListTables() = %v", tables)
	}
	assertSQLMock(t, mock)
}

func TestStripTrailingSemicolons(t *testing.T) {
	if got := stripTrailingSemicolons("SELECT 1 ; ; "); got != "SELECT 1" {
		t.Fatalf("stripTrailingSemicolons() = %q", got)
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
