package feasibility

import (
	"fmt"

	"github.com/jgoulah/feasibility/pkg/models"
)

// EvaluateSolar runs the solar pipeline: aggregate, size, dispatch, cost
func EvaluateSolar(raw models.RawSeries, req Request) (models.Outcome, []models.Warning) {
	yield, warnings := Aggregate(raw, models.Solar)
	if len(warnings) > 0 {
		return dataMissing(models.Solar, warnings[0]), warnings
	}

	kwp, err := SizeSolar(req.Site.AreaSqm, req.Site.AnnualConsumptionKWh, yield)
	if err != nil {
		w := models.Warning{
			Technology: models.Solar,
			Kind:       models.WarnNoData,
			Message:    fmt.Sprintf("solar data has no usable electricity values: %v", err),
		}
		return dataMissing(models.Solar, w), []models.Warning{w}
	}

	generated := yield * kwp
	return buildResult(models.Solar, yield, kwp, 0, generated, SolarCapexPerKWp, req), nil
}

// EvaluateWind runs the wind pipeline. A site too small for any wind capacity
// is reported as infeasible, not as an error.
func EvaluateWind(raw models.RawSeries, req Request) (models.Outcome, []models.Warning) {
	yield, warnings := Aggregate(raw, models.Wind)
	if len(warnings) > 0 {
		return dataMissing(models.Wind, warnings[0]), warnings
	}

	size := SizeWind(req.Site.AreaSqm, req.WindSizing)
	if !size.Feasible() {
		reason := "Site too small for a full wind turbine with proper spacing."
		if req.WindSizing == WindSizingContinuous {
			reason = "Site has no area available for wind capacity."
		}
		return models.Infeasible{Tech: models.Wind, AnnualYield: yield, Reason: reason},
			[]models.Warning{{Technology: models.Wind, Kind: models.WarnInfeasible, Message: reason}}
	}

	generated := yield * size.CapacityKW
	return buildResult(models.Wind, yield, size.CapacityKW, size.Turbines, generated, WindCapexPerKW, req), nil
}

func buildResult(tech models.Technology, yield, capacity float64, turbines int, generated, capexRate float64, req Request) *models.TechnologyResult {
	dispatch := Dispatch(generated, req.Site.AnnualConsumptionKWh, req.Battery)
	econ := Evaluate(EconomicsInput{
		Capacity:     capacity,
		CapexPerUnit: capexRate,
		Dispatch:     dispatch,
		Tariff:       req.Tariff,
		Battery:      req.Battery,
	})

	return &models.TechnologyResult{
		Tech:              tech,
		AnnualYield:       yield,
		InstalledCapacity: capacity,
		Turbines:          turbines,
		GeneratedKWh:      generated,
		Dispatch:          dispatch,
		CapitalCost:       econ.CapitalCost,
		ExportIncome:      econ.ExportIncome,
		AnnualSavings:     econ.AnnualSavings,
		PaybackYears:      econ.PaybackYears,
	}
}

func dataMissing(tech models.Technology, w models.Warning) models.DataMissing {
	return models.DataMissing{Tech: tech, Reason: w.Message, Sample: w.Sample}
}

// EvaluateTechnology dispatches to the pipeline for tech
func EvaluateTechnology(tech models.Technology, raw models.RawSeries, req Request) (models.Outcome, []models.Warning) {
	if tech == models.Wind {
		return EvaluateWind(raw, req)
	}
	return EvaluateSolar(raw, req)
}
