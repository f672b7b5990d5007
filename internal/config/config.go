package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/range.report/internal/bands"
	"github.com/banshee-data/range.report/internal/units"
)

// ServiceConfig represents the root configuration for the range report
// service. The analysis fields match the /api/analyze request schema so the
// same JSON can be used for startup configuration and ad hoc requests.
type ServiceConfig struct {
	// Server params
	ListenAddr *string `json:"listen_addr,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
	Units      *string `json:"units,omitempty"`

	// Analysis params
	MaxRange       *float64 `json:"max_range,omitempty"`
	BandWidth      *float64 `json:"band_width,omitempty"`
	TargetDistance *float64 `json:"target_distance,omitempty"`
	DistanceMode   *string  `json:"distance_mode,omitempty"`

	// Sampling circle params. When omitted the stock probe set applies.
	Circles []CircleConfig `json:"circles,omitempty"`
}

// CircleConfig is one sampling circle entry.
type CircleConfig struct {
	Enabled  *bool    `json:"enabled,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Radius   *float64 `json:"radius,omitempty"`
	Angle    *float64 `json:"angle,omitempty"`
	Label    *string  `json:"label,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyServiceConfig returns a ServiceConfig with all fields set to nil.
// The Get* methods supply defaults for every nil field.
func EmptyServiceConfig() *ServiceConfig {
	return &ServiceConfig{}
}

// LoadConfig loads a ServiceConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadConfig(path string) (*ServiceConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyServiceConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ServiceConfig) Validate() error {
	// Validate MaxRange if set
	if c.MaxRange != nil && *c.MaxRange <= 0 {
		return fmt.Errorf("max_range must be positive, got %f", *c.MaxRange)
	}

	// Validate BandWidth if set
	if c.BandWidth != nil && *c.BandWidth <= 0 {
		return fmt.Errorf("band_width must be positive, got %f", *c.BandWidth)
	}

	// Validate DistanceMode parses if set
	if c.DistanceMode != nil {
		if _, err := bands.ParseDistanceMode(*c.DistanceMode); err != nil {
			return fmt.Errorf("invalid distance_mode: %w", err)
		}
	}

	// Validate Units if set
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %s, got %q", units.GetValidUnitsString(), *c.Units)
	}

	// Validate circle entries
	for i, circle := range c.Circles {
		if circle.Radius != nil && *circle.Radius <= 0 {
			return fmt.Errorf("circle %d radius must be positive, got %f", i, *circle.Radius)
		}
		if circle.Distance != nil && *circle.Distance < 0 {
			return fmt.Errorf("circle %d distance must be non-negative, got %f", i, *circle.Distance)
		}
	}

	return nil
}

// GetListenAddr returns the listen_addr value or the default.
func (c *ServiceConfig) GetListenAddr() string {
	if c.ListenAddr == nil {
		return ":8080" // default
	}
	return *c.ListenAddr
}

// GetDBPath returns the db_path value or the default.
func (c *ServiceConfig) GetDBPath() string {
	if c.DBPath == nil {
		return "range_data.db" // default
	}
	return *c.DBPath
}

// GetUnits returns the units value or the default.
func (c *ServiceConfig) GetUnits() string {
	if c.Units == nil {
		return units.Metres // default
	}
	return *c.Units
}

// GetMaxRange returns the max_range value or the default.
func (c *ServiceConfig) GetMaxRange() float64 {
	if c.MaxRange == nil {
		return 35.0 // default
	}
	return *c.MaxRange
}

// GetBandWidth returns the band_width value or the default.
func (c *ServiceConfig) GetBandWidth() float64 {
	if c.BandWidth == nil {
		return 10.0 // default
	}
	return *c.BandWidth
}

// GetTargetDistance returns the target_distance value or the default.
func (c *ServiceConfig) GetTargetDistance() float64 {
	if c.TargetDistance == nil {
		return 5.0 // default
	}
	return *c.TargetDistance
}

// GetDistanceMode returns the parsed distance_mode value or the default.
func (c *ServiceConfig) GetDistanceMode() bands.DistanceMode {
	if c.DistanceMode == nil {
		return bands.Euclidean // default
	}
	mode, err := bands.ParseDistanceMode(*c.DistanceMode)
	if err != nil {
		return bands.Euclidean // default on parse error
	}
	return mode
}

// BandsConfig materializes the analysis configuration.
func (c *ServiceConfig) BandsConfig() *bands.Config {
	return bands.DefaultConfig().
		WithMaxRange(c.GetMaxRange()).
		WithBandWidth(c.GetBandWidth()).
		WithTargetDistance(c.GetTargetDistance()).
		WithMode(c.GetDistanceMode())
}

// SamplingCircles materializes the configured sampling circles, falling back
// to the stock probe set when none are configured.
func (c *ServiceConfig) SamplingCircles() []bands.SamplingCircle {
	if len(c.Circles) == 0 {
		return bands.DefaultSamplingCircles()
	}

	circles := make([]bands.SamplingCircle, 0, len(c.Circles))
	for i, entry := range c.Circles {
		circle := bands.SamplingCircle{
			Enabled: true,
			Radius:  0.5,
			Label:   fmt.Sprintf("Circle %d", i+1),
		}
		if entry.Enabled != nil {
			circle.Enabled = *entry.Enabled
		}
		if entry.Distance != nil {
			circle.Distance = *entry.Distance
		}
		if entry.Radius != nil {
			circle.Radius = *entry.Radius
		}
		if entry.Angle != nil {
			circle.Angle = *entry.Angle
		}
		if entry.Label != nil {
			circle.Label = *entry.Label
		}
		circles = append(circles, circle)
	}
	return circles
}
