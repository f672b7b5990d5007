package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/range.report/internal/config"
	"github.com/banshee-data/range.report/internal/db"
)

func setupTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	dbInst, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { dbInst.Close() })

	if err := dbInst.MigrateUp(); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	return NewServer(dbInst, nil, nil, ""), dbInst
}

// Helper functions to create pointers
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestShowConfigDefaults(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var effective map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&effective); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if effective["units"] != "m" {
		t.Errorf("Expected units m, got %v", effective["units"])
	}
	if effective["max_range"] != 35.0 {
		t.Errorf("Expected max_range 35, got %v", effective["max_range"])
	}
	if effective["band_width"] != 10.0 {
		t.Errorf("Expected band_width 10, got %v", effective["band_width"])
	}
	if effective["target_distance"] != 5.0 {
		t.Errorf("Expected target_distance 5, got %v", effective["target_distance"])
	}
	if effective["distance_mode"] != "euclidean" {
		t.Errorf("Expected distance_mode euclidean, got %v", effective["distance_mode"])
	}
	if effective["listen_addr"] != ":8080" {
		t.Errorf("Expected listen_addr :8080, got %v", effective["listen_addr"])
	}
	if v, ok := effective["version"].(string); !ok || v == "" {
		t.Errorf("Expected a version string, got %v", effective["version"])
	}
}

func TestShowConfigOverrides(t *testing.T) {
	cfg := &config.ServiceConfig{
		Units:    strPtr("ft"),
		MaxRange: floatPtr(50),
	}
	server := NewServer(nil, nil, cfg, "")

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var effective map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&effective); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if effective["units"] != "ft" {
		t.Errorf("Expected units ft, got %v", effective["units"])
	}
	if effective["max_range"] != 50.0 {
		t.Errorf("Expected max_range 50, got %v", effective["max_range"])
	}
	if effective["band_width"] != 10.0 {
		t.Errorf("Expected default band_width 10, got %v", effective["band_width"])
	}
}

func TestShowConfigMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/config", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status": "ok"`) {
		t.Errorf("Expected ok status in body, got %s", body)
	}
	if !strings.Contains(body, `"service": "rangereport"`) {
		t.Errorf("Expected service name in body, got %s", body)
	}
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, colorBoldGreen + "200" + colorReset},
		{201, colorBoldGreen + "201" + colorReset},
		{301, colorYellow + "301" + colorReset},
		{404, colorBoldRed + "404" + colorReset},
		{500, colorBoldRed + "500" + colorReset},
		{100, "100"},
	}

	for _, tt := range tests {
		if got := statusCodeColor(tt.code); got != tt.want {
			t.Errorf("statusCodeColor(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("Expected body to pass through, got %q", w.Body.String())
	}
}

func TestServeMuxUnknownRoute(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
