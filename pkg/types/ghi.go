package types

import "strconv"

// GHIBand is the ordinal irradiation bucket used to colour chart points.
type GHIBand int

const (
	GHIBandLow GHIBand = iota
	GHIBandMedium
	GHIBandHigh
	GHIBandVeryHigh
)

// GHIBands lists the bands in ascending order.
var GHIBands = []GHIBand{GHIBandLow, GHIBandMedium, GHIBandHigh, GHIBandVeryHigh}

// GHIThresholds are the lower bounds of the medium, high and very high bands.
type GHIThresholds [3]float64

// DefaultGHIThresholds buckets irradiation into <2, [2,4), [4,6) and >=6.
var DefaultGHIThresholds = GHIThresholds{2, 4, 6}

// Classify returns the band of ghi. Bands are closed-open except the top one
// which also catches NaN.
func (t GHIThresholds) Classify(ghi float64) GHIBand {
	if ghi < t[0] {
		return GHIBandLow
	} else if ghi < t[1] {
		return GHIBandMedium
	} else if ghi < t[2] {
		return GHIBandHigh
	}
	return GHIBandVeryHigh
}

// Color returns the display colour name of the band.
func (b GHIBand) Color() string {
	switch b {
	case GHIBandLow:
		return "navy"
	case GHIBandMedium:
		return "lightblue"
	case GHIBandHigh:
		return "orange"
	default:
		return "brown"
	}
}

// Label returns the legend label of the band for the given thresholds.
func (t GHIThresholds) Label(b GHIBand) string {
	switch b {
	case GHIBandLow:
		return "< " + formatThreshold(t[0])
	case GHIBandMedium:
		return formatThreshold(t[0]) + " ~ " + formatThreshold(t[1])
	case GHIBandHigh:
		return formatThreshold(t[1]) + " ~ " + formatThreshold(t[2])
	default:
		return "> " + formatThreshold(t[2])
	}
}

// String implements fmt.Stringer.
func (b GHIBand) String() string {
	return b.Color()
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
