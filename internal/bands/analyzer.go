// Package bands bins 2-D sensor point clouds into concentric distance bands,
// resolves the band containing a target distance, and verifies band
// populations by direct recounting.
package bands

import (
	"math"

	"github.com/banshee-data/range.report/internal/monitoring"
)

// Logger receives the analyzer's diagnostic messages. Calls are
// fire-and-forget: the analyzer never blocks on its logger and never fails
// because of it.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// monitorLogger routes diagnostics through the package-level monitoring
// hooks so binaries can redirect or mute analyzer output in one place.
type monitorLogger struct{}

func (monitorLogger) Infof(format string, v ...interface{}) { monitoring.Logf(format, v...) }
func (monitorLogger) Warnf(format string, v ...interface{}) { monitoring.Warnf(format, v...) }

// maxListedPoints is the band population at which member coordinates stop
// being retained on the Band for enumeration.
const maxListedPoints = 50

// Analyzer runs distance band analyses. It holds only a configuration copy
// and a logger, so concurrent Analyze calls over independent batches are
// safe.
type Analyzer struct {
	cfg Config
	log Logger
}

// New returns an Analyzer for cfg. A nil logger falls back to the monitoring
// package hooks.
func New(cfg Config, log Logger) *Analyzer {
	if log == nil {
		log = monitorLogger{}
	}
	return &Analyzer{cfg: cfg, log: log}
}

// Analyze bins batch into distance bands and resolves the target band.
//
// It returns a *ConfigError when the configuration is invalid or the batch
// slices disagree in length, and produces no partial result in that case.
// Every other input oddity (empty batch, out-of-range or degenerate target)
// degrades to a warning and a sensible default. Bands are built immutably by
// direct recounting, after which the verification pass recounts once more
// and warns on any disagreement before the recount wins.
func (a *Analyzer) Analyze(batch PointBatch) (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	if a.cfg.Mode == Directional {
		a.log.Infof("Using directional (Y-axis) distance calculation")
	} else {
		a.log.Infof("Using Euclidean distance calculation")
	}
	dists := a.cfg.Mode.Distances(batch)

	edges := BandEdges(a.cfg.MaxRange, a.cfg.BandWidth)
	res := &Result{
		Bands:       buildBands(edges, batch, dists),
		TotalPoints: batch.Len(),
		Mode:        a.cfg.Mode,
	}

	key, idx, found := resolveTargetBand(res.Bands, a.cfg.TargetDistance)
	res.TargetBandKey = key
	if found {
		a.log.Infof("Target band for %gm identified as %s", a.cfg.TargetDistance, key)
	} else {
		a.log.Warnf("Could not find exact band for %gm, using %s", a.cfg.TargetDistance, key)
	}

	// The target band population is recounted from the distances rather than
	// read back from the band it names.
	if idx >= 0 {
		res.TargetBandPoints = countWithin(dists, res.Bands[idx].Start, res.Bands[idx].End)
	}

	for _, m := range verifyBandCounts(res.Bands, dists) {
		a.log.Warnf("Count mismatch in band %s: stored=%d, actual=%d", m.Key, m.Stored, m.Recomputed)
		res.Bands[m.Index].Count = m.Recomputed
	}

	if idx >= 0 && res.TargetBandPoints > 0 {
		a.logTargetExtents(res.Bands[idx], batch, dists)
	}
	a.log.Infof("Points in distance range %s: %d", res.TargetBandKey, res.TargetBandPoints)
	a.log.Infof("Total points analyzed: %d", res.TotalPoints)

	return res, nil
}

// logTargetExtents reports the coordinate envelope of the target band's
// members. It scans the batch directly so the extents are available even
// when the band's member list has been elided.
func (a *Analyzer) logTargetExtents(b Band, batch PointBatch, dists []float64) {
	first := true
	var minX, maxX, minY, maxY float64
	for i, d := range dists {
		if !b.Contains(d) {
			continue
		}
		if first {
			minX, maxX = batch.X[i], batch.X[i]
			minY, maxY = batch.Y[i], batch.Y[i]
			first = false
			continue
		}
		if batch.X[i] < minX {
			minX = batch.X[i]
		}
		if batch.X[i] > maxX {
			maxX = batch.X[i]
		}
		if batch.Y[i] < minY {
			minY = batch.Y[i]
		}
		if batch.Y[i] > maxY {
			maxY = batch.Y[i]
		}
	}
	if first {
		return
	}
	a.log.Infof("Target band points X range: %.2f to %.2f", minX, maxX)
	a.log.Infof("Target band points Y range: %.2f to %.2f", minY, maxY)
}

// BandEdges returns the band boundaries 0, w, 2w, ... for the given range.
// Edge k·w is generated while k·w < maxRange+bandWidth, so a boundary at or
// beyond maxRange is always present and a width that does not evenly divide
// maxRange yields a final band overhanging it. Points at or past the last
// edge belong to no band. Degenerate arguments yield nil rather than
// spinning.
func BandEdges(maxRange, bandWidth float64) []float64 {
	if maxRange <= 0 || bandWidth <= 0 || math.IsNaN(maxRange) || math.IsNaN(bandWidth) {
		return nil
	}
	if math.IsInf(maxRange, 1) {
		return nil
	}
	stop := maxRange + bandWidth
	var edges []float64
	for i := 0; ; i++ {
		e := float64(i) * bandWidth
		if e >= stop {
			break
		}
		edges = append(edges, e)
	}
	return edges
}

// buildBands populates one Band per adjacent edge pair by recounting the
// point distances for each interval.
func buildBands(edges []float64, batch PointBatch, dists []float64) []Band {
	if len(edges) < 2 {
		return nil
	}
	bs := make([]Band, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		b := Band{Start: edges[i], End: edges[i+1]}
		var intensitySum float64
		for j, d := range dists {
			if d >= b.Start && d < b.End {
				b.Count++
				intensitySum += batch.Intensity[j]
			}
		}
		if b.Count > 0 {
			b.AvgIntensity = intensitySum / float64(b.Count)
		}
		if b.Count > 0 && b.Count < maxListedPoints {
			b.Points = make([]BandPoint, 0, b.Count)
			for j, d := range dists {
				if d >= b.Start && d < b.End {
					b.Points = append(b.Points, BandPoint{X: batch.X[j], Y: batch.Y[j], Distance: d})
				}
			}
		}
		bs = append(bs, b)
	}
	return bs
}

// resolveTargetBand picks the first band containing target. When no band
// contains it the first band is returned with found=false; with no bands at
// all the synthetic "0-0m" key is returned with idx=-1. Resolution never
// fails.
func resolveTargetBand(bs []Band, target float64) (key string, idx int, found bool) {
	for i, b := range bs {
		if b.Contains(target) {
			return b.Key(), i, true
		}
	}
	if len(bs) > 0 {
		return bs[0].Key(), 0, false
	}
	return FormatBandKey(0, 0), -1, false
}
