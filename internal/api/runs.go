package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/range.report/internal/db"
	"github.com/banshee-data/range.report/internal/httputil"
)

// listRuns returns persisted run summaries, newest first, without band rows.
// An optional label query filters by exact label and limit caps the count.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	limit := 50 // default value
	if l := r.URL.Query().Get("limit"); l != "" {
		parsedLimit, err := strconv.Atoi(l)
		if err != nil || parsedLimit < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsedLimit
	}

	runs, err := s.db.ListRuns(r.URL.Query().Get("label"), limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}
	if runs == nil {
		// an empty table still encodes as [] rather than null
		runs = []db.Run{}
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		httputil.InternalServerError(w, "Failed to write runs")
		return
	}
}

// getRunByID returns one persisted run with its band rows. The run ID is the
// path segment after /api/runs/.
func (s *Server) getRunByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	runID := strings.TrimSpace(path)
	if runID == "" {
		httputil.BadRequest(w, "run_id is required")
		return
	}

	run, err := s.db.GetRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, fmt.Sprintf("run %s not found", runID))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve run: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(run); err != nil {
		httputil.InternalServerError(w, "Failed to write run")
		return
	}
}
