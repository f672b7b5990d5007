package monitor

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/range.report/internal/bands"
	"github.com/banshee-data/range.report/internal/httputil"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echartsAssetsPrefix is where the chart pages load the echarts runtime from.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Monitor serves the band debug pages over the latest analysis snapshot.
type Monitor struct {
	latest *Latest
}

// New creates a Monitor reading from the given snapshot holder.
func New(latest *Latest) *Monitor {
	return &Monitor{latest: latest}
}

// AttachDebugRoutes registers the band debug pages on mux.
func (m *Monitor) AttachDebugRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/bands", m.handleDashboard)
	mux.HandleFunc("/debug/bands/scatter", m.handleScatterChart)
	mux.HandleFunc("/debug/bands/counts", m.handleCountsChart)
	mux.HandleFunc("/debug/bands/heatmap", m.handleHeatmapChart)
	mux.HandleFunc("/debug/bands/plot.png", m.handleBandPlot)
}

// bandIndex returns the index of the band containing d, or -1 when d is at
// or past the last edge.
func bandIndex(bs []bands.Band, d float64) int {
	for i, b := range bs {
		if b.Contains(d) {
			return i
		}
	}
	return -1
}

// handleScatterChart renders the latest batch as an XY scatter colored by
// band index. Points at or past the last band edge belong to no band and are
// not plotted.
func (m *Monitor) handleScatterChart(w http.ResponseWriter, r *http.Request) {
	snap := m.latest.Get()
	if snap == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "no analysis recorded yet")
		return
	}

	res := snap.Result
	dists := res.Mode.Distances(snap.Batch)

	data := make([]opts.ScatterData, 0, snap.Batch.Len())
	maxAbs := 0.0
	for i := 0; i < snap.Batch.Len(); i++ {
		idx := bandIndex(res.Bands, dists[i])
		if idx < 0 {
			continue
		}
		x := snap.Batch.X[i]
		y := snap.Batch.Y[i]
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, idx}})
	}

	// Add a small padding so points at the edges are visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	maxBand := len(res.Bands) - 1
	if maxBand <= 0 {
		maxBand = 1
	}

	// Force a square plot by using equal width/height and symmetric axis ranges
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Band Scatter", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Points by Distance Band", Subtitle: fmt.Sprintf("mode=%s target=%s points=%d plotted=%d", res.Mode, res.TargetBandKey, res.TotalPoints, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxBand),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("points", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleCountsChart renders a bar chart of per-band point counts.
func (m *Monitor) handleCountsChart(w http.ResponseWriter, r *http.Request) {
	snap := m.latest.Get()
	if snap == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "no analysis recorded yet")
		return
	}

	res := snap.Result
	x := make([]string, 0, len(res.Bands))
	y := make([]opts.BarData, 0, len(res.Bands))
	for _, b := range res.Bands {
		x = append(x, b.Key())
		y = append(y, opts.BarData{Value: b.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Band Counts", Subtitle: fmt.Sprintf("target=%s total=%d", res.TargetBandKey, res.TotalPoints)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("points", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleHeatmapChart renders the gridded batch intensities as a coarse
// heatmap (as colored scatter), one point per occupied cell.
// Query params:
//   - resolution (optional; default 1.0) cell size in metres
func (m *Monitor) handleHeatmapChart(w http.ResponseWriter, r *http.Request) {
	snap := m.latest.Get()
	if snap == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "no analysis recorded yet")
		return
	}

	resolution := 1.0
	if v := r.URL.Query().Get("resolution"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			resolution = parsed
		}
	}

	maxRange := snap.Config.MaxRange
	grid := bands.GridHeatmap(snap.Batch, maxRange, resolution)

	points := make([]opts.ScatterData, 0, len(grid))
	maxVal := 0.0
	for row := range grid {
		for col, v := range grid[row] {
			if v == 0 {
				continue
			}
			if v > maxVal {
				maxVal = v
			}
			x := -maxRange + (float64(col)+0.5)*resolution
			y := (float64(row) + 0.5) * resolution
			points = append(points, opts.ScatterData{Value: []interface{}{x, y, v}})
		}
	}
	if len(points) == 0 {
		httputil.WriteJSONError(w, http.StatusNotFound, "no heatmap cells available")
		return
	}
	if maxVal == 0 {
		maxVal = 1.0
	}

	pad := maxRange * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Band Heatmap", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Intensity Heatmap", Subtitle: fmt.Sprintf("cells=%d resolution=%gm", len(points), resolution)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("intensity", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render heatmap chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleBandPlot renders the latest analysis as a PNG.
func (m *Monitor) handleBandPlot(w http.ResponseWriter, r *http.Request) {
	snap := m.latest.Get()
	if snap == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "no analysis recorded yet")
		return
	}

	var buf bytes.Buffer
	if err := WriteBandPlotPNG(&buf, snap.Result, snap.Batch, snap.Config); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// handleDashboard renders a small page linking the band debug charts.
func (m *Monitor) handleDashboard(w http.ResponseWriter, r *http.Request) {
	status := "no analysis recorded yet"
	if snap := m.latest.Get(); snap != nil {
		age, _ := m.latest.Age()
		status = fmt.Sprintf("latest analysis: target=%s points=%d taken %s ago",
			snap.Result.TargetBandKey, snap.Result.TotalPoints, age.Truncate(time.Second))
	}

	doc := fmt.Sprintf(dashboardHTML, html.EscapeString(status))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// dashboardHTML is the /debug/bands index page. The single %s is the current
// snapshot status line.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<title>Distance Bands Debug</title>
<style>
body { background: #111; color: #ddd; font-family: sans-serif; margin: 1em; }
a { color: #6ece58; }
iframe { border: 1px solid #333; background: #1a1a1a; margin-top: 1em; }
</style>
</head>
<body>
<h1>Distance Bands</h1>
<p>%s</p>
<p>
<a href="/debug/bands/scatter">scatter</a> |
<a href="/debug/bands/counts">counts</a> |
<a href="/debug/bands/heatmap">heatmap</a> |
<a href="/debug/bands/plot.png">plot.png</a>
</p>
<iframe src="/debug/bands/scatter" width="920" height="920"></iframe>
<iframe src="/debug/bands/counts" width="920" height="740"></iframe>
</body>
</html>
`
