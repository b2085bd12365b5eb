package models

import (
	"fmt"
	"math"

	"github.com/go-json-experiment/json/jsontext"
)

// Technology identifies a generation technology
type Technology string

const (
	Solar Technology = "solar"
	Wind  Technology = "wind"
)

// Technologies lists every technology in report order
var Technologies = []Technology{Solar, Wind}

// ParseTechnology converts a user-supplied name into a Technology
func ParseTechnology(s string) (Technology, error) {
	switch Technology(s) {
	case Solar, Wind:
		return Technology(s), nil
	default:
		return "", fmt.Errorf("unknown technology: %s (available: solar, wind)", s)
	}
}

// Location is a resolved postcode
type Location struct {
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SiteParameters describes the site being assessed
type SiteParameters struct {
	AreaSqm              float64 `json:"area_sqm"`
	AnnualConsumptionKWh float64 `json:"annual_consumption_kwh"`
}

// TariffParameters holds the grid export price in currency units per kWh
type TariffParameters struct {
	ExportPricePerKWh float64 `json:"export_price_per_kwh"`
}

// BatteryParameters describes an optional battery. A nil *BatteryParameters
// means no battery is included.
type BatteryParameters struct {
	CapacityKWh         float64 `json:"capacity_kwh"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"` // fraction in [0,1]
	CostPerKWh          float64 `json:"cost_per_kwh"`
}

// Validate checks the battery parameters are physically meaningful
func (b *BatteryParameters) Validate() error {
	if b == nil {
		return nil
	}
	if !finite(b.CapacityKWh) || b.CapacityKWh < 0 {
		return fmt.Errorf("battery capacity must be a non-negative number (got %g)", b.CapacityKWh)
	}
	// NaN fails both comparisons
	if !(b.RoundTripEfficiency >= 0 && b.RoundTripEfficiency <= 1) {
		return fmt.Errorf("battery round-trip efficiency must be between 0 and 1 (got %g)", b.RoundTripEfficiency)
	}
	if !finite(b.CostPerKWh) || b.CostPerKWh < 0 {
		return fmt.Errorf("battery cost must be a non-negative number (got %g)", b.CostPerKWh)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RawRecord is one per-timestep record exactly as the data provider sent it
type RawRecord struct {
	Key   string
	Value jsontext.Value
}

// RawSeries is the provider's keyed collection of records, in the order the
// provider sent them
type RawSeries []RawRecord
