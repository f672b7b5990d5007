package bands

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BandStats summarizes the distance distribution inside one band.
type BandStats struct {
	Key           string  `json:"band"`
	Count         int     `json:"count"`
	MeanIntensity float64 `json:"mean_intensity"`
	MinDistance   float64 `json:"min_distance_m"`
	MaxDistance   float64 `json:"max_distance_m"`
	P50Distance   float64 `json:"p50_distance_m"`
	P85Distance   float64 `json:"p85_distance_m"`
	P98Distance   float64 `json:"p98_distance_m"`
}

// ComputeBandStats derives per-band distance percentiles and intensity means
// for res over the batch it was computed from. Empty bands yield zeroed
// stats; a batch whose shape no longer matches the result simply yields
// fewer members.
func ComputeBandStats(res *Result, batch PointBatch) []BandStats {
	dists := res.Mode.Distances(batch)
	out := make([]BandStats, 0, len(res.Bands))
	for _, b := range res.Bands {
		s := BandStats{Key: b.Key()}
		var member, intensities []float64
		for i, d := range dists {
			if b.Contains(d) {
				member = append(member, d)
				intensities = append(intensities, batch.Intensity[i])
			}
		}
		s.Count = len(member)
		if s.Count > 0 {
			sort.Float64s(member)
			s.MeanIntensity = stat.Mean(intensities, nil)
			s.MinDistance = member[0]
			s.MaxDistance = member[len(member)-1]
			s.P50Distance = stat.Quantile(0.50, stat.Empirical, member, nil)
			s.P85Distance = stat.Quantile(0.85, stat.Empirical, member, nil)
			s.P98Distance = stat.Quantile(0.98, stat.Empirical, member, nil)
		}
		out = append(out, s)
	}
	return out
}

// DefaultNoiseFloor is the reference level for intensity SNR calculations.
const DefaultNoiseFloor = 0.05

// IntensitySNR returns the peak intensity over the noise floor in decibels.
// Empty input or a peak at or below the floor yields 0. A non-positive floor
// falls back to DefaultNoiseFloor.
func IntensitySNR(intensities []float64, noiseFloor float64) float64 {
	if len(intensities) == 0 {
		return 0
	}
	if noiseFloor <= 0 {
		noiseFloor = DefaultNoiseFloor
	}
	peak := intensities[0]
	for _, v := range intensities[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= noiseFloor {
		return 0
	}
	return 10 * math.Log10(peak/noiseFloor)
}
