// Package schema describes the fixed HR schema the pipeline runs against.
// Every synthesis prompt is grounded on this registry rather than on a live
// introspection pass, so generated queries stay aligned with the contract
// the persistence layer enforces.
package schema

import "strings"

type Column struct {
	Name       string
	Type       string
	Constraint string
}

type ForeignKey struct {
	Column     string
	RefTable   string
	RefColumn  string
}

type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
	Unique      []string
}

// Tables returns the six HR tables in dependency order.
func Tables() []Table {
	return []Table{
		{
			Name: "employees",
			Columns: []Column{
				{Name: "employee_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "name", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "email", Type: "TEXT", Constraint: "NOT NULL UNIQUE"},
				{Name: "role", Type: "TEXT", Constraint: "NOT NULL CHECK (role IN ('Employee', 'Manager', 'CEO'))"},
				{Name: "leave_balance", Type: "INTEGER", Constraint: "DEFAULT 20 CHECK (leave_balance >= 0)"},
				{Name: "manager_id", Type: "INTEGER"},
				{Name: "created_at", Type: "TEXT", Constraint: "DEFAULT CURRENT_TIMESTAMP"},
			},
			ForeignKeys: []ForeignKey{{Column: "manager_id", RefTable: "employees", RefColumn: "employee_id"}},
		},
		{
			Name: "projects",
			Columns: []Column{
				{Name: "project_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "project_name", Type: "TEXT", Constraint: "NOT NULL UNIQUE"},
				{Name: "department", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "created_at", Type: "TEXT", Constraint: "DEFAULT CURRENT_TIMESTAMP"},
			},
		},
		{
			Name: "project_assignments",
			Columns: []Column{
				{Name: "assignment_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "employee_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "project_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "start_date", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "end_date", Type: "TEXT"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "employee_id", RefTable: "employees", RefColumn: "employee_id"},
				{Column: "project_id", RefTable: "projects", RefColumn: "project_id"},
			},
			Unique: []string{"employee_id", "project_id", "start_date"},
		},
		{
			Name: "presence",
			Columns: []Column{
				{Name: "presence_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "employee_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "date", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "status", Type: "TEXT", Constraint: "NOT NULL CHECK (status IN ('Present', 'Absent', 'On Leave'))"},
			},
			ForeignKeys: []ForeignKey{{Column: "employee_id", RefTable: "employees", RefColumn: "employee_id"}},
			Unique:      []string{"employee_id", "date"},
		},
		{
			Name: "leave_requests",
			Columns: []Column{
				{Name: "leave_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "employee_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "manager_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "start_date", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "end_date", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "type", Type: "TEXT", Constraint: "NOT NULL CHECK (type IN ('Vacation', 'Sick', 'Personal', 'Disruption'))"},
				{Name: "status", Type: "TEXT", Constraint: "NOT NULL CHECK (status IN ('Pending', 'Approved', 'Rejected'))"},
				{Name: "created_at", Type: "TEXT", Constraint: "DEFAULT CURRENT_TIMESTAMP"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "employee_id", RefTable: "employees", RefColumn: "employee_id"},
				{Column: "manager_id", RefTable: "employees", RefColumn: "employee_id"},
			},
		},
		{
			Name: "activity_reports",
			Columns: []Column{
				{Name: "report_id", Type: "INTEGER", Constraint: "PRIMARY KEY AUTOINCREMENT"},
				{Name: "employee_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "project_id", Type: "INTEGER", Constraint: "NOT NULL"},
				{Name: "date", Type: "TEXT", Constraint: "NOT NULL"},
				{Name: "hours", Type: "INTEGER", Constraint: "NOT NULL CHECK (hours >= 0)"},
				{Name: "status", Type: "TEXT", Constraint: "NOT NULL CHECK (status IN ('Draft', 'Submitted', 'Approved', 'Rejected'))"},
				{Name: "created_at", Type: "TEXT", Constraint: "DEFAULT CURRENT_TIMESTAMP"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "employee_id", RefTable: "employees", RefColumn: "employee_id"},
				{Column: "project_id", RefTable: "projects", RefColumn: "project_id"},
			},
		},
	}
}

// TableNames returns the registry table names in declaration order.
func TableNames() []string {
	tables := Tables()
	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
	}
	return names
}

// DDL renders the registry as CREATE TABLE statements for prompt grounding.
func DDL() string {
	var b strings.Builder
	for _, table := range Tables() {
		b.WriteString(table.DDL())
		b.WriteString("\n")
	}
	return b.String()
}

func (t Table) DDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(t.Name)
	b.WriteString(" (\n")

	lines := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+1)
	for _, column := range t.Columns {
		line := "    " + column.Name + " " + column.Type
		if column.Constraint != "" {
			line += " " + column.Constraint
		}
		lines = append(lines, line)
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, "    FOREIGN KEY ("+fk.Column+") REFERENCES "+fk.RefTable+"("+fk.RefColumn+")")
	}
	if len(t.Unique) > 0 {
		lines = append(lines, "    UNIQUE ("+strings.Join(t.Unique, ", ")+")")
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);\n")
	return b.String()
}
