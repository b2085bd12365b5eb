package feasibility

import (
	"fmt"
	"strings"
)

// AreaUnit is a unit a site size can be entered in
type AreaUnit string

const (
	SquareMeters AreaUnit = "sqm"
	Hectares     AreaUnit = "hectares"
	Acres        AreaUnit = "acres"
)

var unitFactors = map[AreaUnit]float64{
	SquareMeters: 1,
	Hectares:     10000,
	Acres:        4046.86,
}

// ParseAreaUnit converts a unit name into an AreaUnit
func ParseAreaUnit(s string) (AreaUnit, error) {
	u := AreaUnit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := unitFactors[u]; !ok {
		return "", fmt.Errorf("unknown area unit: %s (available: sqm, hectares, acres)", s)
	}
	return u, nil
}

// Normalize converts a site size into square meters. The magnitude must be
// non-negative.
func Normalize(magnitude float64, unit AreaUnit) float64 {
	return magnitude * unitFactors[unit]
}
