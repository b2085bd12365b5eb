package feasibility

import (
	"math"

	"github.com/jgoulah/feasibility/pkg/models"
)

// Dispatch splits a year's generation into on-site use and export.
//
// With a battery, the whole battery capacity is assumed to cycle exactly once
// against the annual excess. This is an annual approximation, not an hourly
// charge/discharge simulation.
func Dispatch(generatedKWh, consumptionKWh float64, battery *models.BatteryParameters) models.Dispatch {
	d := models.Dispatch{
		UsedDirectKWh: math.Min(generatedKWh, consumptionKWh),
		ExcessKWh:     math.Max(0, generatedKWh-consumptionKWh),
	}

	if battery == nil {
		d.UsedKWh = d.UsedDirectKWh
		d.ExportedKWh = d.ExcessKWh
		return d
	}

	d.StoredKWh = math.Min(d.ExcessKWh, battery.CapacityKWh) * battery.RoundTripEfficiency
	d.UsedKWh = d.UsedDirectKWh + d.StoredKWh
	d.ExportedKWh = math.Max(0, d.ExcessKWh-battery.CapacityKWh)
	return d
}
