package bands

// PointBatch holds a point cloud as parallel coordinate and intensity slices.
// The analyzer treats batches as immutable. The JSON field names define the
// batch interchange format used by the CLI tools and the analyze endpoint.
type PointBatch struct {
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	Intensity []float64 `json:"intensity"`
}

// Len returns the number of points in the batch.
func (b PointBatch) Len() int { return len(b.X) }

// Validate checks that the parallel slices agree in length.
func (b PointBatch) Validate() error {
	if len(b.X) != len(b.Y) || len(b.X) != len(b.Intensity) {
		return configErrorf("point batch slices must be the same length, got x=%d y=%d intensity=%d",
			len(b.X), len(b.Y), len(b.Intensity))
	}
	return nil
}

// Append returns the batch extended by one point.
func (b PointBatch) Append(x, y, intensity float64) PointBatch {
	b.X = append(b.X, x)
	b.Y = append(b.Y, y)
	b.Intensity = append(b.Intensity, intensity)
	return b
}

// Concat returns the batch extended by every point of other.
func (b PointBatch) Concat(other PointBatch) PointBatch {
	b.X = append(b.X, other.X...)
	b.Y = append(b.Y, other.Y...)
	b.Intensity = append(b.Intensity, other.Intensity...)
	return b
}
