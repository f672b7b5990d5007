package bands

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBandKey renders a band interval as its canonical "<start>-<end>m"
// key. Edges use their shortest exact representation, so integral edges
// render without a decimal point ("0-10m") and every key parses back to the
// same two values.
func FormatBandKey(start, end float64) string {
	return formatEdge(start) + "-" + formatEdge(end) + "m"
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseBandKey recovers the interval from a key produced by FormatBandKey.
func ParseBandKey(key string) (start, end float64, err error) {
	trimmed, ok := strings.CutSuffix(key, "m")
	if !ok {
		return 0, 0, fmt.Errorf("band key %q missing the unit suffix", key)
	}
	lo, hi, ok := strings.Cut(trimmed, "-")
	if !ok {
		return 0, 0, fmt.Errorf("band key %q is not of the form <start>-<end>m", key)
	}
	start, err = strconv.ParseFloat(lo, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("band key %q has a bad start edge: %w", key, err)
	}
	end, err = strconv.ParseFloat(hi, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("band key %q has a bad end edge: %w", key, err)
	}
	return start, end, nil
}
