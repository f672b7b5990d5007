// Package stimulus produces synthetic point batches with known distance
// structure for exercising the band analyzer without sensor hardware.
package stimulus

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/banshee-data/range.report/internal/bands"
)

// Intensity falloff parameters. Points lose intensity linearly with
// distance, plus gaussian noise, clamped to [MinIntensity, MaxIntensity].
const (
	MaxIntensity      = 20.0
	MinIntensity      = 1.0
	intensitySlope    = 0.5
	intensityNoiseStd = 2.0
)

// distanceJitter is the fractional spread applied to each requested
// distance, so points land within ±5% of it.
const distanceJitter = 0.05

// Generator builds synthetic point batches. Points are emitted in a fan
// centred on the forward (+Y) axis with a small distance jitter and an
// intensity that falls off with distance.
type Generator struct {
	// AngleSpread is the total angular spread of the fan in degrees,
	// centred straight ahead (default: 180, the full forward half-plane).
	AngleSpread float64

	rng *rand.Rand
}

// NewGenerator creates a Generator. A zero seed derives one from the clock;
// any other value gives a reproducible sequence.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		AngleSpread: 180,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// PointsAt emits count points at the requested distance. Each point gets a
// uniform angle within the fan, a distance within ±5% of d, and an intensity
// of clamp(20 - 0.5·distance + N(0,2), 1, 20).
func (g *Generator) PointsAt(d float64, count int) bands.PointBatch {
	var batch bands.PointBatch
	for i := 0; i < count; i++ {
		// 0° points along +X; straight ahead is 90°.
		halfSpread := g.AngleSpread / 2
		angleDeg := 90 - halfSpread + g.rng.Float64()*g.AngleSpread
		angleRad := angleDeg * math.Pi / 180

		actual := d * (1 + distanceJitter*(2*g.rng.Float64()-1))

		x := actual * math.Cos(angleRad)
		y := actual * math.Sin(angleRad)

		intensity := MaxIntensity - actual*intensitySlope + g.rng.NormFloat64()*intensityNoiseStd
		if intensity < MinIntensity {
			intensity = MinIntensity
		}
		if intensity > MaxIntensity {
			intensity = MaxIntensity
		}

		batch = batch.Append(x, y, intensity)
	}
	return batch
}

// PointsAtDistances emits clusters at each distance. counts gives the
// cluster sizes; a nil counts applies perDistance to every cluster. The two
// slices must otherwise agree in length.
func (g *Generator) PointsAtDistances(distances []float64, counts []int, perDistance int) (bands.PointBatch, error) {
	if counts != nil && len(counts) != len(distances) {
		return bands.PointBatch{}, fmt.Errorf("got %d counts for %d distances", len(counts), len(distances))
	}
	var batch bands.PointBatch
	for i, d := range distances {
		n := perDistance
		if counts != nil {
			n = counts[i]
		}
		batch = batch.Concat(g.PointsAt(d, n))
	}
	return batch, nil
}
