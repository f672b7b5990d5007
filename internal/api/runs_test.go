package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/range.report/internal/db"
)

// insertTestRun stores a minimal run with a fixed timestamp so list ordering
// is deterministic.
func insertTestRun(t *testing.T, dbInst *db.DB, label string, createdAt int64) *db.Run {
	t.Helper()

	run := &db.Run{
		Label:            label,
		CreatedAt:        createdAt,
		Mode:             "euclidean",
		MaxRange:         35,
		BandWidth:        10,
		TargetDistance:   5,
		TotalPoints:      7,
		TargetBand:       "0-10m",
		TargetBandPoints: 3,
		Bands: []db.RunBand{
			{BandKey: "0-10m", StartM: 0, EndM: 10, PointCount: 3, AvgIntensity: 10},
			{BandKey: "10-20m", StartM: 10, EndM: 20, PointCount: 2, AvgIntensity: 8},
		},
	}
	if err := dbInst.InsertRun(run); err != nil {
		t.Fatalf("Failed to insert test run: %v", err)
	}
	return run
}

func TestListRunsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("Expected empty array, got %s", got)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	server, dbInst := setupTestServer(t)

	older := insertTestRun(t, dbInst, "first", 1000)
	newer := insertTestRun(t, dbInst, "second", 2000)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var runs []db.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != newer.RunID {
		t.Errorf("Expected newest run first, got %s", runs[0].Label)
	}
	if runs[1].RunID != older.RunID {
		t.Errorf("Expected oldest run last, got %s", runs[1].Label)
	}
	// summaries carry no band rows
	if len(runs[0].Bands) != 0 {
		t.Errorf("Expected no band rows in summaries, got %d", len(runs[0].Bands))
	}
}

func TestListRunsLabelFilter(t *testing.T) {
	server, dbInst := setupTestServer(t)

	insertTestRun(t, dbInst, "keep", 1000)
	insertTestRun(t, dbInst, "skip", 2000)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?label=keep", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var runs []db.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 1 || runs[0].Label != "keep" {
		t.Errorf("Expected only the keep run, got %d runs", len(runs))
	}
}

func TestListRunsLimit(t *testing.T) {
	server, dbInst := setupTestServer(t)

	insertTestRun(t, dbInst, "a", 1000)
	insertTestRun(t, dbInst, "b", 2000)
	insertTestRun(t, dbInst, "c", 3000)

	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=2", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var runs []db.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(runs))
	}
}

func TestListRunsInvalidLimit(t *testing.T) {
	server, _ := setupTestServer(t)

	for _, limit := range []string{"0", "-3", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit="+limit, nil)
		w := httptest.NewRecorder()
		server.ServeMux().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status 400, got %d", limit, w.Code)
		}
	}
}

func TestListRunsMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestGetRunByID(t *testing.T) {
	server, dbInst := setupTestServer(t)

	run := insertTestRun(t, dbInst, "detail", 1000)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/"+run.RunID, nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var got db.Run
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.RunID != run.RunID {
		t.Errorf("Expected run %s, got %s", run.RunID, got.RunID)
	}
	if got.Label != "detail" {
		t.Errorf("Expected label detail, got %s", got.Label)
	}
	if len(got.Bands) != 2 {
		t.Errorf("Expected 2 band rows, got %d", len(got.Bands))
	}
}

func TestGetRunByIDNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/no-such-run", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetRunByIDMissing(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "run_id is required") {
		t.Errorf("Expected run_id error, got %s", w.Body.String())
	}
}
