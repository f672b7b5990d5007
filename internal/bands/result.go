package bands

// BandPoint is one band member retained for diagnostics.
type BandPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
}

// Band is one half-open distance interval [Start, End) and its population.
type Band struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Count        int     `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"` // 0 when the band is empty
	// Points holds member coordinates for small bands so callers can
	// enumerate them. It is nil once the population reaches
	// maxListedPoints; Count and AvgIntensity are unaffected.
	Points []BandPoint `json:"points,omitempty"`
}

// Key returns the band's canonical "<start>-<end>m" identifier.
func (b Band) Key() string { return FormatBandKey(b.Start, b.End) }

// Contains reports whether distance d falls inside the band.
func (b Band) Contains(d float64) bool { return d >= b.Start && d < b.End }

// Result is the outcome of one analysis pass.
type Result struct {
	// Bands is ordered by increasing Start.
	Bands []Band `json:"bands"`
	// TargetBandKey names the band resolved for the configured target
	// distance, falling back per the resolution rules when no band
	// contains it.
	TargetBandKey string `json:"target_band"`
	// TargetBandPoints is the target band's population recomputed directly
	// from the batch. It is stored separately from the band's Count.
	TargetBandPoints int `json:"target_band_points"`
	// TotalPoints is the batch size, including points beyond the last edge.
	TotalPoints int `json:"total_points"`
	// Mode is the distance derivation the analysis actually used.
	Mode DistanceMode `json:"distance_mode"`
}

// TargetBand returns the band named by TargetBandKey. ok is false when the
// key is synthetic (no bands) or otherwise absent.
func (r *Result) TargetBand() (Band, bool) {
	for _, b := range r.Bands {
		if b.Key() == r.TargetBandKey {
			return b, true
		}
	}
	return Band{}, false
}

// BandKeys returns the band identifiers in ascending distance order.
func (r *Result) BandKeys() []string {
	keys := make([]string, len(r.Bands))
	for i, b := range r.Bands {
		keys[i] = b.Key()
	}
	return keys
}

// Edges returns the band boundaries, one more than the number of bands.
// Empty results yield nil.
func (r *Result) Edges() []float64 {
	if len(r.Bands) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(r.Bands)+1)
	for _, b := range r.Bands {
		edges = append(edges, b.Start)
	}
	return append(edges, r.Bands[len(r.Bands)-1].End)
}
