package api

import (
	"net/http"

	"github.com/optiflow/optiflow/internal/schema"
)

func handleListTables(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Engine == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TABLES_NOT_CONFIGURED", "query engine is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	tables, err := deps.Engine.ListTables(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "TABLE_LIST_FAILED", "failed to list live tables", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	tables := schema.Tables()
	items := make([]map[string]any, 0, len(tables))
	for _, table := range tables {
		columns := make([]map[string]string, 0, len(table.Columns))
		for _, column := range table.Columns {
			columns = append(columns, map[string]string{"name": column.Name, "type": column.Type})
		}
		items = append(items, map[string]any{
			"table_name": table.Name,
			"columns":    columns,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": items, "ddl": schema.DDL()})
}
