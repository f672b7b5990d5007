// Command batch-analyse runs a distance band analysis over a point batch
// without the HTTP server. It reads a batch JSON file (or synthesizes one),
// prints the band report, and can export JSON, save a plot PNG, or persist
// the run to the run store.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/range.report/internal/bands"
	"github.com/banshee-data/range.report/internal/db"
	"github.com/banshee-data/range.report/internal/monitor"
	"github.com/banshee-data/range.report/internal/monitoring"
	"github.com/banshee-data/range.report/internal/stimulus"
	"github.com/banshee-data/range.report/internal/units"
)

// Config holds the tool configuration.
type Config struct {
	Input     string
	Synthetic bool
	Distances string
	Counts    string
	Count     int
	Spread    float64
	Seed      int64

	MaxRange  float64
	BandWidth float64
	Target    float64
	Mode      string

	Units      string
	OutputJSON string
	PlotFile   string
	DBPath     string
	Label      string
	Quiet      bool
}

// Report is the full analysis output, printed to the terminal and exported
// with -json. Distances inside are metres; Units records the display unit.
type Report struct {
	Source     string                `json:"source"`
	Units      string                `json:"units"`
	Result     *bands.Result         `json:"result"`
	Stats      []bands.BandStats     `json:"stats"`
	Circles    []bands.CircleStats   `json:"circles"`
	SNRdB      float64               `json:"snr_db"`
	Mismatches []bands.CountMismatch `json:"count_mismatches,omitempty"`
}

func main() {
	cfg := parseFlags()

	if cfg.Input == "" && !cfg.Synthetic {
		log.Fatal("Either -input or -synthetic is required")
	}
	if !units.IsValid(cfg.Units) {
		log.Fatalf("Invalid -units %q (valid: %s)", cfg.Units, units.GetValidUnitsString())
	}
	mode, err := bands.ParseDistanceMode(cfg.Mode)
	if err != nil {
		log.Fatalf("Invalid -mode: %v", err)
	}

	if cfg.Quiet {
		monitoring.SetLogger(nil)
	}

	batch, source, err := loadBatch(cfg)
	if err != nil {
		log.Fatalf("Failed to load batch: %v", err)
	}

	bandCfg := bands.DefaultConfig().
		WithMaxRange(cfg.MaxRange).
		WithBandWidth(cfg.BandWidth).
		WithTargetDistance(cfg.Target).
		WithMode(mode)

	res, err := bands.New(*bandCfg, nil).Analyze(batch)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	report := &Report{
		Source:     source,
		Units:      cfg.Units,
		Result:     res,
		Stats:      bands.ComputeBandStats(res, batch),
		SNRdB:      bands.IntensitySNR(batch.Intensity, bands.DefaultNoiseFloor),
		Mismatches: bands.VerifyCounts(res, batch),
	}
	for _, c := range bands.DefaultSamplingCircles() {
		if !c.Enabled {
			continue
		}
		report.Circles = append(report.Circles, c.Stats(batch))
	}

	printReport(report)

	if cfg.OutputJSON != "" {
		if err := exportJSON(report, cfg.OutputJSON); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("✓ Created: %s", cfg.OutputJSON)
		}
	}

	if cfg.PlotFile != "" {
		if err := monitor.SaveBandPlotPNG(cfg.PlotFile, res, batch, *bandCfg); err != nil {
			log.Fatalf("Failed to save plot: %v", err)
		}
		log.Printf("✓ Created: %s", cfg.PlotFile)
	}

	if cfg.DBPath != "" {
		runID, err := persistRun(cfg, *bandCfg, res, report.Circles)
		if err != nil {
			log.Fatalf("Failed to persist run: %v", err)
		}
		log.Printf("✓ Persisted run: %s", runID)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Input, "input", "", "Path to a point batch JSON file")
	flag.BoolVar(&cfg.Synthetic, "synthetic", false, "Synthesize the batch instead of reading a file")
	flag.StringVar(&cfg.Distances, "distances", "5,15,25", "Synthetic cluster distances in metres")
	flag.StringVar(&cfg.Counts, "counts", "", "Synthetic per-cluster counts (overrides -count)")
	flag.IntVar(&cfg.Count, "count", 100, "Synthetic points per cluster")
	flag.Float64Var(&cfg.Spread, "spread", 180, "Synthetic fan spread in degrees")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Synthetic random seed (0 seeds from the clock)")

	flag.Float64Var(&cfg.MaxRange, "max-range", 35, "Maximum analysis range in metres")
	flag.Float64Var(&cfg.BandWidth, "band-width", 10, "Band width in metres")
	flag.Float64Var(&cfg.Target, "target", 5, "Target distance in metres")
	flag.StringVar(&cfg.Mode, "mode", "euclidean", "Distance mode: euclidean or directional")

	flag.StringVar(&cfg.Units, "units", "m", "Distance units for display: m or ft")
	flag.StringVar(&cfg.OutputJSON, "json", "", "Export the report as JSON to this path")
	flag.StringVar(&cfg.PlotFile, "plot", "", "Save a band plot PNG to this path")
	flag.StringVar(&cfg.DBPath, "db", "", "Persist the run to this SQLite database")
	flag.StringVar(&cfg.Label, "label", "", "Label for the persisted run")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Suppress analyzer diagnostics")

	flag.Parse()

	return cfg
}

func loadBatch(cfg Config) (bands.PointBatch, string, error) {
	if cfg.Input != "" {
		data, err := os.ReadFile(cfg.Input)
		if err != nil {
			return bands.PointBatch{}, "", err
		}
		var batch bands.PointBatch
		if err := json.Unmarshal(data, &batch); err != nil {
			return bands.PointBatch{}, "", fmt.Errorf("failed to parse batch JSON: %w", err)
		}
		return batch, cfg.Input, nil
	}

	ds, err := parseFloats(cfg.Distances)
	if err != nil {
		return bands.PointBatch{}, "", fmt.Errorf("invalid -distances: %w", err)
	}
	var ns []int
	if cfg.Counts != "" {
		ns, err = parseInts(cfg.Counts)
		if err != nil {
			return bands.PointBatch{}, "", fmt.Errorf("invalid -counts: %w", err)
		}
	}

	gen := stimulus.NewGenerator(cfg.Seed)
	gen.AngleSpread = cfg.Spread

	batch, err := gen.PointsAtDistances(ds, ns, cfg.Count)
	if err != nil {
		return bands.PointBatch{}, "", err
	}
	return batch, fmt.Sprintf("synthetic (%d clusters)", len(ds)), nil
}

// fmtDist renders a metre value in the requested display unit.
func fmtDist(metres float64, u string) string {
	return fmt.Sprintf("%.2f%s", units.ConvertDistance(metres, u), u)
}

func printReport(r *Report) {
	fmt.Println("\n=== Distance Band Report ===")
	fmt.Printf("Source: %s\n", r.Source)
	fmt.Printf("Points: %d\n", r.Result.TotalPoints)
	fmt.Printf("Mode: %s\n", r.Result.Mode)
	fmt.Printf("Target band: %s (%d points)\n", r.Result.TargetBandKey, r.Result.TargetBandPoints)
	fmt.Printf("SNR: %.2f dB\n", r.SNRdB)

	fmt.Println("\n--- Bands ---")
	for _, b := range r.Result.Bands {
		fmt.Printf("%10s: %6d points, avg intensity %.2f\n", b.Key(), b.Count, b.AvgIntensity)
	}

	fmt.Println("\n--- Band Statistics ---")
	for _, s := range r.Stats {
		if s.Count == 0 {
			continue
		}
		fmt.Printf("%10s: min %s, p50 %s, p85 %s, p98 %s, max %s\n",
			s.Key,
			fmtDist(s.MinDistance, r.Units),
			fmtDist(s.P50Distance, r.Units),
			fmtDist(s.P85Distance, r.Units),
			fmtDist(s.P98Distance, r.Units),
			fmtDist(s.MaxDistance, r.Units),
		)
	}

	fmt.Println("\n--- Sampling Circles ---")
	for _, c := range r.Circles {
		fmt.Printf("%s: %d points, avg intensity %.2f, %.2f points/m²\n",
			c.Label, c.Count, c.AvgIntensity, c.Density)
	}

	fmt.Println("\n--- Verification ---")
	if len(r.Mismatches) == 0 {
		fmt.Println("Band counts match a direct recount")
	} else {
		for _, m := range r.Mismatches {
			fmt.Printf("%10s: stored %d, recounted %d\n", m.Key, m.Stored, m.Recomputed)
		}
	}
}

func persistRun(cfg Config, bandCfg bands.Config, res *bands.Result, circles []bands.CircleStats) (string, error) {
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer database.Close()

	if err := database.MigrateUp(); err != nil {
		return "", fmt.Errorf("failed to apply migrations: %w", err)
	}

	run := &db.Run{
		Label:            cfg.Label,
		Mode:             res.Mode.String(),
		MaxRange:         bandCfg.MaxRange,
		BandWidth:        bandCfg.BandWidth,
		TargetDistance:   bandCfg.TargetDistance,
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

	if err := database.InsertRun(run); err != nil {
		return "", err
	}
	return run.RunID, nil
}

func exportJSON(report *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
