package feasibility

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoYield is returned when a capacity cannot be sized because the annual
// yield is zero or missing
var ErrNoYield = errors.New("missing electricity data")

// SizeSolar returns the installable solar capacity in kWp: limited by site
// area and by what annual consumption can absorb
func SizeSolar(areaSqm, consumptionKWh, yieldPerKWp float64) (float64, error) {
	if yieldPerKWp <= 0 || math.IsNaN(yieldPerKWp) {
		return 0, ErrNoYield
	}
	return math.Min(areaSqm/SolarAreaPerKWp, consumptionKWh/yieldPerKWp), nil
}

// WindSizing selects how wind capacity is derived from site area
type WindSizing string

const (
	// WindSizingTurbine counts whole reference turbines that fit the site
	WindSizingTurbine WindSizing = "turbine"
	// WindSizingContinuous allows any capacity at a fixed area per kW
	WindSizingContinuous WindSizing = "continuous"
)

// ParseWindSizing converts a config value into a WindSizing, defaulting to
// turbine sizing when empty
func ParseWindSizing(s string) (WindSizing, error) {
	switch WindSizing(strings.ToLower(s)) {
	case "", WindSizingTurbine:
		return WindSizingTurbine, nil
	case WindSizingContinuous:
		return WindSizingContinuous, nil
	default:
		return "", fmt.Errorf("unknown wind sizing mode: %s (available: turbine, continuous)", s)
	}
}

// WindSize is the wind capacity a site can hold
type WindSize struct {
	Turbines   int // always 0 in continuous mode
	CapacityKW float64
}

// Feasible reports whether any wind capacity fits the site
func (w WindSize) Feasible() bool {
	return w.CapacityKW > 0
}

// SizeWind returns the wind capacity for a site
func SizeWind(areaSqm float64, mode WindSizing) WindSize {
	if mode == WindSizingContinuous {
		return WindSize{CapacityKW: areaSqm / WindAreaPerKW}
	}

	n := math.Floor(areaSqm / TurbineFootprintM)
	var turbines int
	switch {
	case n >= math.MaxInt32:
		turbines = math.MaxInt32
	case n > 0:
		turbines = int(n)
	}
	return WindSize{
		Turbines:   turbines,
		CapacityKW: float64(turbines) * TurbineRatedKW,
	}
}
