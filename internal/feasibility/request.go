package feasibility

import (
	"fmt"
	"math"
	"strings"

	"github.com/jgoulah/feasibility/pkg/models"
)

// RequestInput is the raw user input for a check, as collected by the CLI
type RequestInput struct {
	Postcode       string
	SiteSize       float64
	SiteUnit       AreaUnit
	ConsumptionKWh float64
	ExportPrice    float64 // currency per kWh
	Battery        *models.BatteryParameters
	Year           int
	WindSizing     WindSizing
}

// Request is a validated feasibility check request. It is built once by
// NewRequest and passed by value through the pipeline.
type Request struct {
	Postcode   string
	Site       models.SiteParameters
	Tariff     models.TariffParameters
	Battery    *models.BatteryParameters
	Year       int
	WindSizing WindSizing
}

// NewRequest validates the input and normalizes the site size
func NewRequest(in RequestInput) (Request, error) {
	postcode := strings.TrimSpace(in.Postcode)
	if postcode == "" {
		return Request{}, fmt.Errorf("postcode is required")
	}
	if !finite(in.SiteSize) || in.SiteSize < 0 {
		return Request{}, fmt.Errorf("site size must be a non-negative number (got %g)", in.SiteSize)
	}
	unit := in.SiteUnit
	if unit == "" {
		unit = SquareMeters
	}
	if _, ok := unitFactors[unit]; !ok {
		return Request{}, fmt.Errorf("unknown area unit: %s", unit)
	}
	area := Normalize(in.SiteSize, unit)
	if area > MaxSiteAreaSqm {
		return Request{}, fmt.Errorf("site area must not exceed %g m² (got %g)", MaxSiteAreaSqm, area)
	}
	if !finite(in.ConsumptionKWh) || in.ConsumptionKWh < 0 {
		return Request{}, fmt.Errorf("annual consumption must be a non-negative number (got %g)", in.ConsumptionKWh)
	}
	if !finite(in.ExportPrice) || in.ExportPrice < 0 {
		return Request{}, fmt.Errorf("export price must be a non-negative number (got %g)", in.ExportPrice)
	}
	if in.Year <= 0 {
		return Request{}, fmt.Errorf("year must be positive (got %d)", in.Year)
	}
	if err := in.Battery.Validate(); err != nil {
		return Request{}, err
	}
	sizing := in.WindSizing
	if sizing == "" {
		sizing = WindSizingTurbine
	}

	var battery *models.BatteryParameters
	if in.Battery != nil {
		b := *in.Battery
		battery = &b
	}

	return Request{
		Postcode: postcode,
		Site: models.SiteParameters{
			AreaSqm:              area,
			AnnualConsumptionKWh: in.ConsumptionKWh,
		},
		Tariff:     models.TariffParameters{ExportPricePerKWh: in.ExportPrice},
		Battery:    battery,
		Year:       in.Year,
		WindSizing: sizing,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
