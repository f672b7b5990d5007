package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/range.report/internal/config"
	"github.com/banshee-data/range.report/internal/db"
	"github.com/banshee-data/range.report/internal/httputil"
	"github.com/banshee-data/range.report/internal/monitor"
	"github.com/banshee-data/range.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *db.DB
	latest *monitor.Latest
	cfg    *config.ServiceConfig
	units  string
}

// NewServer wires the API handlers to their dependencies. A nil cfg behaves
// like an empty config file: every setting reports its default. Distances in
// responses stay in metres; units only affects how clients label them.
func NewServer(database *db.DB, latest *monitor.Latest, cfg *config.ServiceConfig, units string) *Server {
	if cfg == nil {
		cfg = config.EmptyServiceConfig()
	}
	if latest == nil {
		latest = monitor.NewLatest(nil)
	}
	if units == "" {
		units = cfg.GetUnits()
	}
	return &Server{
		db:     database,
		latest: latest,
		cfg:    cfg,
		units:  units,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the route table for the analysis API. Callers attach the
// debug chart and admin routes onto the same mux before serving.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/runs/", s.getRunByID)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// showConfig reports the effective service configuration after defaults are
// applied, plus the build version.
func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	effective := map[string]interface{}{
		"listen_addr":     s.cfg.GetListenAddr(),
		"db_path":         s.cfg.GetDBPath(),
		"units":           s.units,
		"max_range":       s.cfg.GetMaxRange(),
		"band_width":      s.cfg.GetBandWidth(),
		"target_distance": s.cfg.GetTargetDistance(),
		"distance_mode":   s.cfg.GetDistanceMode().String(),
		"version":         version.Version,
	}

	if err := json.NewEncoder(w).Encode(effective); err != nil {
		httputil.InternalServerError(w, "Failed to write config")
		return
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "rangereport", "timestamp": "%s"}`, time.Now().UTC().Format(time.RFC3339))
}
