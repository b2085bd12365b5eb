package feasibility

import "github.com/jgoulah/feasibility/pkg/models"

// EconomicsInput is everything the economics calculation needs for one
// technology
type EconomicsInput struct {
	Capacity     float64 // kWp or kW
	CapexPerUnit float64
	Dispatch     models.Dispatch
	Tariff       models.TariffParameters
	Battery      *models.BatteryParameters
}

// Economics is the financial outcome for one technology
type Economics struct {
	CapitalCost   float64
	ExportIncome  float64
	AnnualSavings float64
	PaybackYears  *float64
}

// Evaluate computes capital cost, savings and payback
func Evaluate(in EconomicsInput) Economics {
	capex := in.Capacity * in.CapexPerUnit
	if in.Battery != nil {
		capex += in.Battery.CapacityKWh * in.Battery.CostPerKWh
	}

	exportIncome := in.Dispatch.ExportedKWh * in.Tariff.ExportPricePerKWh
	savings := in.Dispatch.UsedKWh*RetailRatePerKWh + exportIncome

	return Economics{
		CapitalCost:   capex,
		ExportIncome:  exportIncome,
		AnnualSavings: savings,
		PaybackYears:  Payback(capex, savings),
	}
}

// Payback returns years to recover the capital cost, or nil when savings are
// not positive
func Payback(capitalCost, annualSavings float64) *float64 {
	if annualSavings <= 0 {
		return nil
	}
	years := capitalCost / annualSavings
	return &years
}
