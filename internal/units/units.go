// Package units provides shared constants and validation for distance units
package units

// Unit constants
const (
	Metres = "m"
	Feet   = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Metres, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, ft"
}

// ConvertDistance converts a distance from metres to the target units
// Analysis results are stored in metres
func ConvertDistance(distanceM float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return distanceM * 3.28084 // metres to feet
	case Metres:
		return distanceM // no conversion needed
	default:
		return distanceM // default to metres if unknown unit
	}
}
