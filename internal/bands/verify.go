package bands

import "math"

// countTolerance is the allowed disagreement between a stored band count and
// a direct recount before the recount wins. Counts are integral, so any real
// disagreement exceeds it.
const countTolerance = 0.01

// CountMismatch reports a band whose stored Count disagrees with a direct
// recount of its members.
type CountMismatch struct {
	Index      int // position in Result.Bands
	Key        string
	Stored     int
	Recomputed int
}

// VerifyCounts recomputes every band's population directly from the batch
// and reports each disagreement with the stored counts. The function is
// pure; a correct Result yields no mismatches, which makes it usable as a
// test assertion as well as a runtime check.
func VerifyCounts(res *Result, batch PointBatch) []CountMismatch {
	return verifyBandCounts(res.Bands, res.Mode.Distances(batch))
}

func verifyBandCounts(bs []Band, dists []float64) []CountMismatch {
	var mismatches []CountMismatch
	for i, b := range bs {
		actual := countWithin(dists, b.Start, b.End)
		if math.Abs(float64(b.Count-actual)) > countTolerance {
			mismatches = append(mismatches, CountMismatch{
				Index:      i,
				Key:        b.Key(),
				Stored:     b.Count,
				Recomputed: actual,
			})
		}
	}
	return mismatches
}

// countWithin counts distances in the half-open interval [start, end).
func countWithin(dists []float64, start, end float64) int {
	n := 0
	for _, d := range dists {
		if d >= start && d < end {
			n++
		}
	}
	return n
}
