package bands

import "math"

// SamplingCircle is a fixed probe region for spot-checking point density at
// a known location. Angle 0 points straight ahead along the forward (+Y)
// axis; positive angles swing toward +X.
type SamplingCircle struct {
	Enabled  bool    `json:"enabled"`
	Distance float64 `json:"distance"` // metres from the sensor to the circle center
	Radius   float64 `json:"radius"`   // metres
	Angle    float64 `json:"angle"`    // degrees off the forward axis
	Label    string  `json:"label"`
}

// Center returns the circle's center in sensor coordinates.
func (c SamplingCircle) Center() (x, y float64) {
	rad := c.Angle * math.Pi / 180
	return c.Distance * math.Sin(rad), c.Distance * math.Cos(rad)
}

// DefaultSamplingCircles returns the stock probe set: an enabled primary
// circle straight ahead at 5m and two disabled flankers at 15m and 25m.
func DefaultSamplingCircles() []SamplingCircle {
	return []SamplingCircle{
		{Enabled: true, Distance: 5, Radius: 0.5, Angle: 0, Label: "Primary"},
		{Enabled: false, Distance: 15, Radius: 0.5, Angle: -60, Label: "Left"},
		{Enabled: false, Distance: 25, Radius: 0.5, Angle: 60, Label: "Right"},
	}
}

// CircleStats summarizes the points inside a sampling circle.
type CircleStats struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"` // 0 when the circle is empty
	Density      float64 `json:"density"`       // points per square metre
}

// Stats counts the batch members inside the circle, boundary inclusive, and
// averages their intensity.
func (c SamplingCircle) Stats(batch PointBatch) CircleStats {
	cx, cy := c.Center()
	s := CircleStats{Label: c.Label}
	r2 := c.Radius * c.Radius
	var intensitySum float64
	for i := 0; i < batch.Len(); i++ {
		dx := batch.X[i] - cx
		dy := batch.Y[i] - cy
		if dx*dx+dy*dy <= r2 {
			s.Count++
			intensitySum += batch.Intensity[i]
		}
	}
	if s.Count > 0 {
		s.AvgIntensity = intensitySum / float64(s.Count)
	}
	if area := math.Pi * r2; area > 0 {
		s.Density = float64(s.Count) / area
	}
	return s
}
