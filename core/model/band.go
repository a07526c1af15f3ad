package model

import "fmt"

// RiskBand is the classified severity of a zone's flood probability.
type RiskBand int

const (
	BandLow RiskBand = iota
	BandModerate
	BandHigh
	BandSevere
)

// String returns a human-readable representation of the band.
func (b RiskBand) String() string {
	switch b {
	case BandLow:
		return "Low"
	case BandModerate:
		return "Moderate"
	case BandHigh:
		return "High"
	case BandSevere:
		return "Severe"
	default:
		return "unknown"
	}
}

// BandFromString parses a band name as produced by String.
func BandFromString(s string) (RiskBand, error) {
	switch s {
	case "Low":
		return BandLow, nil
	case "Moderate":
		return BandModerate, nil
	case "High":
		return BandHigh, nil
	case "Severe":
		return BandSevere, nil
	default:
		return BandLow, fmt.Errorf("unknown risk band %q", s)
	}
}

// ZoneRisk is the per-zone outcome of scoring one forecast. The critical
// infrastructure flag and hospital count are copied from the zone so that
// allocation ranking does not need a registry lookup.
type ZoneRisk struct {
	ZoneID          string
	Probability     float64
	Band            RiskBand
	IsCriticalInfra bool
	HospitalCount   int
}
