package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/range.report/internal/bands"
)

func TestEmptyServiceConfigDefaults(t *testing.T) {
	cfg := EmptyServiceConfig()

	if cfg.GetListenAddr() != ":8080" {
		t.Errorf("GetListenAddr() = %q, want %q", cfg.GetListenAddr(), ":8080")
	}
	if cfg.GetDBPath() != "range_data.db" {
		t.Errorf("GetDBPath() = %q, want %q", cfg.GetDBPath(), "range_data.db")
	}
	if cfg.GetUnits() != "m" {
		t.Errorf("GetUnits() = %q, want %q", cfg.GetUnits(), "m")
	}
	if cfg.GetMaxRange() != 35.0 {
		t.Errorf("GetMaxRange() = %f, want 35.0", cfg.GetMaxRange())
	}
	if cfg.GetBandWidth() != 10.0 {
		t.Errorf("GetBandWidth() = %f, want 10.0", cfg.GetBandWidth())
	}
	if cfg.GetTargetDistance() != 5.0 {
		t.Errorf("GetTargetDistance() = %f, want 5.0", cfg.GetTargetDistance())
	}
	if cfg.GetDistanceMode() != bands.Euclidean {
		t.Errorf("GetDistanceMode() = %v, want Euclidean", cfg.GetDistanceMode())
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "listen_addr": ":9090",
  "db_path": "custom.db",
  "units": "ft",
  "max_range": 50.0,
  "band_width": 5.0,
  "target_distance": 12.5,
  "distance_mode": "directional",
  "circles": [
    {"enabled": true, "distance": 8.0, "radius": 1.0, "angle": 30.0, "label": "Gate"}
  ]
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ListenAddr == nil || *cfg.ListenAddr != ":9090" {
		t.Errorf("Expected ListenAddr ':9090', got %v", cfg.ListenAddr)
	}
	if cfg.DBPath == nil || *cfg.DBPath != "custom.db" {
		t.Errorf("Expected DBPath 'custom.db', got %v", cfg.DBPath)
	}
	if cfg.Units == nil || *cfg.Units != "ft" {
		t.Errorf("Expected Units 'ft', got %v", cfg.Units)
	}
	if cfg.MaxRange == nil || *cfg.MaxRange != 50.0 {
		t.Errorf("Expected MaxRange 50.0, got %v", cfg.MaxRange)
	}
	if cfg.BandWidth == nil || *cfg.BandWidth != 5.0 {
		t.Errorf("Expected BandWidth 5.0, got %v", cfg.BandWidth)
	}
	if cfg.TargetDistance == nil || *cfg.TargetDistance != 12.5 {
		t.Errorf("Expected TargetDistance 12.5, got %v", cfg.TargetDistance)
	}
	if cfg.GetDistanceMode() != bands.Directional {
		t.Errorf("GetDistanceMode() = %v, want Directional", cfg.GetDistanceMode())
	}
	if len(cfg.Circles) != 1 {
		t.Fatalf("Expected 1 circle, got %d", len(cfg.Circles))
	}
	if cfg.Circles[0].Label == nil || *cfg.Circles[0].Label != "Gate" {
		t.Errorf("Expected circle label 'Gate', got %v", cfg.Circles[0].Label)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial_config.json")

	testJSON := `{"max_range": 20.0}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Specified field comes back, everything else keeps its default.
	if cfg.GetMaxRange() != 20.0 {
		t.Errorf("GetMaxRange() = %f, want 20.0", cfg.GetMaxRange())
	}
	if cfg.GetBandWidth() != 10.0 {
		t.Errorf("GetBandWidth() = %f, want 10.0", cfg.GetBandWidth())
	}
	if cfg.GetListenAddr() != ":8080" {
		t.Errorf("GetListenAddr() = %q, want %q", cfg.GetListenAddr(), ":8080")
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadConfigWrongExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error for non-json extension, got nil")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "max_range": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ServiceConfig
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     EmptyServiceConfig(),
			wantErr: false,
		},
		{
			name:    "negative max_range",
			cfg:     &ServiceConfig{MaxRange: ptrFloat64(-5)},
			wantErr: true,
		},
		{
			name:    "zero band_width",
			cfg:     &ServiceConfig{BandWidth: ptrFloat64(0)},
			wantErr: true,
		},
		{
			name:    "unknown distance_mode",
			cfg:     &ServiceConfig{DistanceMode: ptrString("manhattan")},
			wantErr: true,
		},
		{
			name:    "valid directional mode",
			cfg:     &ServiceConfig{DistanceMode: ptrString("directional")},
			wantErr: false,
		},
		{
			name:    "unknown units",
			cfg:     &ServiceConfig{Units: ptrString("furlongs")},
			wantErr: true,
		},
		{
			name:    "valid feet units",
			cfg:     &ServiceConfig{Units: ptrString("ft")},
			wantErr: false,
		},
		{
			name: "circle with zero radius",
			cfg: &ServiceConfig{
				Circles: []CircleConfig{{Radius: ptrFloat64(0)}},
			},
			wantErr: true,
		},
		{
			name: "circle with negative distance",
			cfg: &ServiceConfig{
				Circles: []CircleConfig{{Distance: ptrFloat64(-1)}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBandsConfig(t *testing.T) {
	cfg := &ServiceConfig{
		MaxRange:       ptrFloat64(40),
		BandWidth:      ptrFloat64(8),
		TargetDistance: ptrFloat64(16),
		DistanceMode:   ptrString("directional"),
	}

	bc := cfg.BandsConfig()
	if bc.MaxRange != 40 || bc.BandWidth != 8 || bc.TargetDistance != 16 {
		t.Errorf("BandsConfig() = (%g, %g, %g), want (40, 8, 16)",
			bc.MaxRange, bc.BandWidth, bc.TargetDistance)
	}
	if bc.Mode != bands.Directional {
		t.Errorf("Mode = %v, want Directional", bc.Mode)
	}
	if err := bc.Validate(); err != nil {
		t.Errorf("materialized config failed validation: %v", err)
	}
}

func TestSamplingCirclesDefault(t *testing.T) {
	circles := EmptyServiceConfig().SamplingCircles()
	if len(circles) != 3 {
		t.Fatalf("got %d default circles, want 3", len(circles))
	}
	if !circles[0].Enabled || circles[0].Label != "Primary" {
		t.Errorf("first default circle = %+v, want enabled Primary", circles[0])
	}
	if circles[1].Enabled || circles[2].Enabled {
		t.Error("flanker circles should be disabled by default")
	}
}

func TestSamplingCirclesConfigured(t *testing.T) {
	cfg := &ServiceConfig{
		Circles: []CircleConfig{
			{Distance: ptrFloat64(8), Angle: ptrFloat64(15), Label: ptrString("Gate")},
			{Enabled: ptrBool(false), Distance: ptrFloat64(20), Radius: ptrFloat64(2)},
		},
	}

	circles := cfg.SamplingCircles()
	if len(circles) != 2 {
		t.Fatalf("got %d circles, want 2", len(circles))
	}

	// Partial entries get defaults: enabled, stock radius, generated label.
	first := circles[0]
	if !first.Enabled || first.Radius != 0.5 || first.Label != "Gate" {
		t.Errorf("first circle = %+v, want enabled r=0.5 label=Gate", first)
	}
	if first.Distance != 8 || first.Angle != 15 {
		t.Errorf("first circle placement = (%g, %g), want (8, 15)", first.Distance, first.Angle)
	}

	second := circles[1]
	if second.Enabled {
		t.Error("second circle should be disabled")
	}
	if second.Radius != 2 || second.Label != "Circle 2" {
		t.Errorf("second circle = %+v, want r=2 label='Circle 2'", second)
	}
}
