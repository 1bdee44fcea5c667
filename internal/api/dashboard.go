package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/optiflow/optiflow/internal/dashboard"
	"github.com/optiflow/optiflow/internal/nl2sql"
)

type dashboardRequest struct {
	Prompt           string        `json:"prompt"`
	History          []nl2sql.Turn `json:"history"`
	AllowDestructive bool          `json:"allow_destructive"`
}

func handleDashboard(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Dashboard == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "DASHBOARD_NOT_CONFIGURED", "dashboard dependencies are not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request dashboardRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid dashboard request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Prompt) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "PROMPT_REQUIRED", "prompt is required", false, nil)
		return
	}

	dash, err := deps.Dashboard.Generate(r.Context(), dashboard.Request{
		Prompt:           request.Prompt,
		History:          request.History,
		AllowDestructive: request.AllowDestructive,
	})
	if err != nil {
		writePipelineError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
