package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/banshee-data/range.report/internal/bands"
	"github.com/banshee-data/range.report/internal/db"
	"github.com/banshee-data/range.report/internal/httputil"
)

// analyzeRequest is the POST /api/analyze payload. Config fields left unset
// fall back to the service configuration, so a client can override just the
// band width or just the target distance.
type analyzeRequest struct {
	Label   string           `json:"label,omitempty"`
	Persist bool             `json:"persist,omitempty"`
	Config  *analyzeConfig   `json:"config,omitempty"`
	Points  bands.PointBatch `json:"points"`
}

type analyzeConfig struct {
	MaxRange       *float64 `json:"max_range,omitempty"`
	BandWidth      *float64 `json:"band_width,omitempty"`
	TargetDistance *float64 `json:"target_distance,omitempty"`
	DistanceMode   *string  `json:"distance_mode,omitempty"`
}

type analyzeResponse struct {
	RunID   string              `json:"run_id,omitempty"`
	Result  *bands.Result       `json:"result"`
	Stats   []bands.BandStats   `json:"stats"`
	Circles []bands.CircleStats `json:"circles,omitempty"`
	SNRdB   float64             `json:"snr_db"`
}

// resolveConfig layers the request overrides onto the service defaults.
func (s *Server) resolveConfig(override *analyzeConfig) (*bands.Config, error) {
	cfg := s.cfg.BandsConfig()
	if override == nil {
		return cfg, nil
	}
	if override.MaxRange != nil {
		cfg.WithMaxRange(*override.MaxRange)
	}
	if override.BandWidth != nil {
		cfg.WithBandWidth(*override.BandWidth)
	}
	if override.TargetDistance != nil {
		cfg.WithTargetDistance(*override.TargetDistance)
	}
	if override.DistanceMode != nil {
		mode, err := bands.ParseDistanceMode(*override.DistanceMode)
		if err != nil {
			return nil, err
		}
		cfg.WithMode(mode)
	}
	return cfg, nil
}

// handleAnalyze bins a submitted point batch into distance bands and returns
// the result with per-band statistics, circle probes and the batch SNR. The
// analysis is recorded as the latest snapshot for the debug chart pages, and
// persisted as a run when the request asks for it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	cfg, err := s.resolveConfig(req.Config)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	res, err := bands.New(*cfg, nil).Analyze(req.Points)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	resp := analyzeResponse{
		Result: res,
		Stats:  bands.ComputeBandStats(res, req.Points),
		SNRdB:  bands.IntensitySNR(req.Points.Intensity, bands.DefaultNoiseFloor),
	}
	for _, c := range s.cfg.SamplingCircles() {
		if !c.Enabled {
			continue
		}
		resp.Circles = append(resp.Circles, c.Stats(req.Points))
	}

	s.latest.Set(res, req.Points, *cfg)

	if req.Persist {
		if s.db == nil {
			httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
			return
		}
		run := runFromResult(req.Label, *cfg, res, resp.Circles)
		if err := s.db.InsertRun(run); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to persist run: %v", err))
			return
		}
		resp.RunID = run.RunID
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		httputil.InternalServerError(w, "Failed to write analysis")
		return
	}
}

// runFromResult flattens an analysis into its persisted form. Only the first
// enabled circle probe is stored on the run row.
func runFromResult(label string, cfg bands.Config, res *bands.Result, circles []bands.CircleStats) *db.Run {
	run := &db.Run{
		Label:            label,
		Mode:             res.Mode.String(),
		MaxRange:         cfg.MaxRange,
		BandWidth:        cfg.BandWidth,
		TargetDistance:   cfg.TargetDistance,
		TotalPoints:      res.TotalPoints,
		TargetBand:       res.TargetBandKey,
		TargetBandPoints: res.TargetBandPoints,
	}
	for _, b := range res.Bands {
		run.Bands = append(run.Bands, db.RunBand{
			BandKey:      b.Key(),
			StartM:       b.Start,
			EndM:         b.End,
			PointCount:   b.Count,
			AvgIntensity: b.AvgIntensity,
		})
	}
	if len(circles) > 0 {
		count := circles[0].Count
		avg := circles[0].AvgIntensity
		run.CircleCount = &count
		run.CircleAvgIntensity = &avg
	}
	return run
}
