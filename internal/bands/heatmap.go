package bands

import "math"

// GridHeatmap accumulates point intensities onto a grid covering x in
// [-maxRange, maxRange) and y in [0, maxRange), one cell per resolution
// metres. Cells index as [row][col] with row following y. Points outside
// the grid are dropped; degenerate arguments yield nil.
func GridHeatmap(batch PointBatch, maxRange, resolution float64) [][]float64 {
	if maxRange <= 0 || resolution <= 0 || math.IsNaN(maxRange) || math.IsNaN(resolution) {
		return nil
	}
	cols := int(math.Ceil(2 * maxRange / resolution))
	rows := int(math.Ceil(maxRange / resolution))
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]float64, cols)
	}
	for i := 0; i < batch.Len(); i++ {
		col := int(math.Floor((batch.X[i] + maxRange) / resolution))
		row := int(math.Floor(batch.Y[i] / resolution))
		if col < 0 || col >= cols || row < 0 || row >= rows {
			continue
		}
		grid[row][col] += batch.Intensity[i]
	}
	return grid
}
