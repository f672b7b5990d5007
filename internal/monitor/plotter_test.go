package monitor

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/range.report/internal/bands"
)

func TestBandPlot(t *testing.T) {
	snap := analyzedLatest(t).Get()

	p, err := BandPlot(snap.Result, snap.Batch, snap.Config)
	if err != nil {
		t.Fatalf("BandPlot: %v", err)
	}
	if !strings.Contains(p.Title.Text, "Points by Distance Band") {
		t.Errorf("title = %q, want it to name the band plot", p.Title.Text)
	}
	if p.X.Min != -p.X.Max {
		t.Errorf("X range [%v, %v] is not symmetric", p.X.Min, p.X.Max)
	}
	if p.X.Min != p.Y.Min || p.X.Max != p.Y.Max {
		t.Error("X and Y ranges differ; rings would not render round")
	}
}

func TestBandPlotEmptyBatch(t *testing.T) {
	cfg := bands.Config{MaxRange: 30, BandWidth: 10, TargetDistance: 5}
	res, err := bands.New(cfg, quietLogger{}).Analyze(bands.PointBatch{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := BandPlot(res, bands.PointBatch{}, cfg); err != nil {
		t.Fatalf("BandPlot over an empty batch: %v", err)
	}
}

func TestWriteBandPlotPNG(t *testing.T) {
	snap := analyzedLatest(t).Get()

	var buf bytes.Buffer
	if err := WriteBandPlotPNG(&buf, snap.Result, snap.Batch, snap.Config); err != nil {
		t.Fatalf("WriteBandPlotPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output does not start with the PNG signature")
	}
}

func TestSaveBandPlotPNG(t *testing.T) {
	snap := analyzedLatest(t).Get()

	path := filepath.Join(t.TempDir(), "bands.png")
	if err := SaveBandPlotPNG(path, snap.Result, snap.Batch, snap.Config); err != nil {
		t.Fatalf("SaveBandPlotPNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("saved plot is empty")
	}
}

func TestCircleXYs(t *testing.T) {
	pts := circleXYs(2.5)
	if len(pts) != circleSegments+1 {
		t.Fatalf("got %d points, want %d", len(pts), circleSegments+1)
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-last.X) > 1e-9 || math.Abs(first.Y-last.Y) > 1e-9 {
		t.Error("circle is not closed")
	}
	for i, pt := range pts {
		r := math.Hypot(pt.X, pt.Y)
		if math.Abs(r-2.5) > 1e-9 {
			t.Fatalf("point %d at radius %v, want 2.5", i, r)
		}
	}
}

func TestBandColors(t *testing.T) {
	if got := bandColors(0); got != nil {
		t.Errorf("bandColors(0) = %v, want nil", got)
	}
	colors := bandColors(4)
	if len(colors) != 4 {
		t.Fatalf("got %d colors, want 4", len(colors))
	}
	seen := make(map[color.Color]bool)
	for _, c := range colors {
		if seen[c] {
			t.Fatalf("duplicate color %v in palette", c)
		}
		seen[c] = true
	}
}

func TestBandIndex(t *testing.T) {
	bs := []bands.Band{
		{Start: 0, End: 10},
		{Start: 10, End: 20},
		{Start: 20, End: 30},
	}
	tests := []struct {
		d    float64
		want int
	}{
		{0, 0},
		{5, 0},
		{10, 1},
		{19.99, 1},
		{29.99, 2},
		{30, -1},
		{100, -1},
	}
	for _, tt := range tests {
		if got := bandIndex(bs, tt.d); got != tt.want {
			t.Errorf("bandIndex(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
