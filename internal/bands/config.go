package bands

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DistanceMode selects how a point's distance from the sensor is derived.
type DistanceMode int

const (
	// Euclidean measures straight-line distance from the origin, sqrt(x²+y²).
	// It is the zero value and the default.
	Euclidean DistanceMode = iota
	// Directional measures distance along the forward axis only, |y|.
	Directional
)

// String returns the mode's canonical lowercase name.
func (m DistanceMode) String() string {
	if m == Directional {
		return "directional"
	}
	return "euclidean"
}

func (m DistanceMode) valid() bool {
	return m == Euclidean || m == Directional
}

// ParseDistanceMode converts a string form to a DistanceMode. The empty
// string selects the default Euclidean mode.
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean":
		return Euclidean, nil
	case "directional":
		return Directional, nil
	}
	return Euclidean, fmt.Errorf("unknown distance mode %q (valid: euclidean, directional)", s)
}

// MarshalJSON renders the mode as its string name.
func (m DistanceMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts the string forms understood by ParseDistanceMode.
func (m *DistanceMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := ParseDistanceMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Distances derives the per-point distances for batch b under mode m.
func (m DistanceMode) Distances(b PointBatch) []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		if m == Directional {
			out[i] = math.Abs(b.Y[i])
		} else {
			out[i] = math.Sqrt(b.X[i]*b.X[i] + b.Y[i]*b.Y[i])
		}
	}
	return out
}

// Config holds the parameters for one distance band analysis.
type Config struct {
	MaxRange       float64      `json:"max_range"`       // metres, extent of the binned region (default: 35)
	BandWidth      float64      `json:"band_width"`      // metres, width of each band (default: 10)
	TargetDistance float64      `json:"target_distance"` // metres, distance of interest (default: 5)
	Mode           DistanceMode `json:"distance_mode"`   // distance derivation (default: Euclidean)
}

// DefaultConfig returns the standard analysis parameters. A BandWidth that
// does not evenly divide MaxRange is allowed: every band is exactly BandWidth
// wide, so the last band's upper edge then overhangs MaxRange and only the
// portion below MaxRange carries analytical meaning.
func DefaultConfig() *Config {
	return &Config{
		MaxRange:       35.0,
		BandWidth:      10.0,
		TargetDistance: 5.0,
		Mode:           Euclidean,
	}
}

// WithMaxRange sets the extent of the binned region.
func (c *Config) WithMaxRange(m float64) *Config {
	c.MaxRange = m
	return c
}

// WithBandWidth sets the band width.
func (c *Config) WithBandWidth(w float64) *Config {
	c.BandWidth = w
	return c
}

// WithTargetDistance sets the distance of interest.
func (c *Config) WithTargetDistance(d float64) *Config {
	c.TargetDistance = d
	return c
}

// WithMode sets the distance derivation mode.
func (c *Config) WithMode(m DistanceMode) *Config {
	c.Mode = m
	return c
}

// Validate checks the configuration. Violations are fatal for an analysis:
// Analyze returns the ConfigError and produces no partial result. Any
// TargetDistance is accepted; degenerate targets resolve via the fallback
// rules rather than failing.
func (c *Config) Validate() error {
	if c.MaxRange <= 0 || math.IsNaN(c.MaxRange) || math.IsInf(c.MaxRange, 0) {
		return configErrorf("MaxRange must be a positive finite number, got %f", c.MaxRange)
	}
	if c.BandWidth <= 0 || math.IsNaN(c.BandWidth) || math.IsInf(c.BandWidth, 0) {
		return configErrorf("BandWidth must be a positive finite number, got %f", c.BandWidth)
	}
	if !c.Mode.valid() {
		return configErrorf("Mode must be Euclidean or Directional, got %d", int(c.Mode))
	}
	return nil
}

// ConfigError reports a precondition violation that makes analysis
// impossible. It is the only error Analyze returns.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, v ...interface{}) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, v...)}
}
