// Command gen-batch writes a synthetic point batch as JSON, suitable for
// batch-analyse or for POSTing to /api/analyze.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/range.report/internal/stimulus"
)

func main() {
	output := flag.String("o", "batch.json", "output path")
	distances := flag.String("distances", "5,15,25", "comma-separated cluster distances in metres")
	count := flag.Int("count", 100, "points per cluster")
	counts := flag.String("counts", "", "comma-separated per-cluster counts (overrides -count)")
	spread := flag.Float64("spread", 180, "fan spread in degrees, centred straight ahead")
	seed := flag.Int64("seed", 0, "random seed (0 seeds from the clock)")
	flag.Parse()

	ds, err := parseFloats(*distances)
	if err != nil {
		log.Fatalf("Invalid -distances: %v", err)
	}

	var ns []int
	if *counts != "" {
		ns, err = parseInts(*counts)
		if err != nil {
			log.Fatalf("Invalid -counts: %v", err)
		}
	}

	gen := stimulus.NewGenerator(*seed)
	gen.AngleSpread = *spread

	batch, err := gen.PointsAtDistances(ds, ns, *count)
	if err != nil {
		log.Fatalf("Failed to generate batch: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(batch); err != nil {
		log.Fatalf("Failed to write batch: %v", err)
	}

	log.Printf("%d points in %d clusters", batch.Len(), len(ds))
	log.Printf("✓ Created: %s", *output)
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
