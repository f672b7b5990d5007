package monitor

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/banshee-data/range.report/internal/bands"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// circleSegments controls how finely the boundary circles are sampled.
const circleSegments = 128

// BandPlot builds a plot of the batch: one colored scatter per band, dashed
// circles at the band edges, and a solid circle at the target distance.
// Band membership is recomputed from the result's edges so the plot covers
// every point even when band member lists have been elided.
func BandPlot(res *bands.Result, batch bands.PointBatch, cfg bands.Config) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Points by Distance Band (total=%d, target %s=%d)",
		res.TotalPoints, res.TargetBandKey, res.TargetBandPoints)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	dists := res.Mode.Distances(batch)
	colors := bandColors(len(res.Bands))

	for i, b := range res.Bands {
		pts := make(plotter.XYs, 0, b.Count)
		for j, d := range dists {
			if b.Contains(d) {
				pts = append(pts, plotter.XY{X: batch.X[j], Y: batch.Y[j]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("%s: %d points", b.Key(), len(pts)), s)
	}

	// Band boundaries as dashed rings, labelled at the top of each ring.
	edges := res.Edges()
	var labelXYs plotter.XYs
	var labelText []string
	for _, e := range edges {
		if e <= 0 {
			continue
		}
		ring, err := plotter.NewLine(circleXYs(e))
		if err != nil {
			return nil, err
		}
		ring.Color = color.Gray{Y: 128}
		ring.Width = vg.Points(1)
		ring.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(ring)
		labelXYs = append(labelXYs, plotter.XY{X: 0, Y: e})
		labelText = append(labelText, fmt.Sprintf("%gm", e))
	}
	if len(labelXYs) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelText})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	if cfg.TargetDistance > 0 {
		target, err := plotter.NewLine(circleXYs(cfg.TargetDistance))
		if err != nil {
			return nil, err
		}
		target.Color = color.RGBA{R: 255, G: 82, B: 82, A: 255}
		target.Width = vg.Points(1.5)
		p.Add(target)
		p.Legend.Add(fmt.Sprintf("target %gm", cfg.TargetDistance), target)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Symmetric axis ranges with a square canvas keep the rings round.
	lim := cfg.MaxRange
	if n := len(edges); n > 0 && edges[n-1] > lim {
		lim = edges[n-1]
	}
	lim *= 1.05
	if lim == 0 {
		lim = 1.0
	}
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim

	return p, nil
}

// circleXYs samples a closed circle of radius r about the origin.
func circleXYs(r float64) plotter.XYs {
	pts := make(plotter.XYs, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(circleSegments)
		pts[i] = plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pts
}

// WriteBandPlotPNG renders the band plot as a PNG to w.
func WriteBandPlotPNG(w io.Writer, res *bands.Result, batch bands.PointBatch, cfg bands.Config) error {
	p, err := BandPlot(res, batch, cfg)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(9*vg.Inch, 9*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render band plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write band plot: %w", err)
	}
	return nil
}

// SaveBandPlotPNG renders the band plot as a PNG file at path.
func SaveBandPlotPNG(path string, res *bands.Result, batch bands.PointBatch, cfg bands.Config) error {
	p, err := BandPlot(res, batch, cfg)
	if err != nil {
		return err
	}
	if err := p.Save(9*vg.Inch, 9*vg.Inch, path); err != nil {
		return fmt.Errorf("save band plot: %w", err)
	}
	return nil
}

// bandColors creates a palette of distinct colors for the band scatters.
func bandColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
