package report

import (
	"time"

	"github.com/jgoulah/feasibility/pkg/models"
)

// TechnologyView is the serializable form of one technology outcome. Status
// selects which of the optional fields are populated.
type TechnologyView struct {
	Technology   models.Technology `json:"technology"`
	Status       string            `json:"status"`
	AnnualYield  *float64          `json:"annual_yield,omitempty"`
	Capacity     *float64          `json:"installed_capacity,omitempty"`
	CapacityUnit string            `json:"capacity_unit,omitempty"`
	Turbines     int               `json:"turbines,omitzero"`
	GeneratedKWh *float64          `json:"generated_kwh,omitempty"`
	Dispatch     *models.Dispatch  `json:"dispatch,omitempty"`
	CapitalCost  *float64          `json:"capital_cost,omitempty"`
	ExportIncome *float64          `json:"export_income,omitempty"`
	Savings      *float64          `json:"annual_savings,omitempty"`
	PaybackYears *float64          `json:"payback_years,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Sample       string            `json:"sample,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// View is the serializable form of a report
type View struct {
	RequestID   string                    `json:"request_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Location    models.Location           `json:"location"`
	Site        models.SiteParameters     `json:"site"`
	Tariff      models.TariffParameters   `json:"tariff"`
	Battery     *models.BatteryParameters `json:"battery,omitempty"`
	Year        int                       `json:"year"`
	Solar       TechnologyView            `json:"solar"`
	Wind        TechnologyView            `json:"wind"`
	Warnings    []models.Warning          `json:"warnings"`
}

// NewView flattens a report into its serializable form
func NewView(r *models.Report) View {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []models.Warning{}
	}
	return View{
		RequestID:   r.RequestID,
		GeneratedAt: r.GeneratedAt,
		Location:    r.Location,
		Site:        r.Site,
		Tariff:      r.Tariff,
		Battery:     r.Battery,
		Year:        r.Year,
		Solar:       NewTechnologyView(models.Solar, r.Solar),
		Wind:        NewTechnologyView(models.Wind, r.Wind),
		Warnings:    warnings,
	}
}

// NewTechnologyView flattens one outcome. A nil outcome is reported as
// missing data for tech.
func NewTechnologyView(tech models.Technology, o models.Outcome) TechnologyView {
	v := TechnologyView{Technology: tech}

	switch o := o.(type) {
	case *models.TechnologyResult:
		v.Status = o.Status()
		v.AnnualYield = ptr(o.AnnualYield)
		v.Capacity = ptr(o.InstalledCapacity)
		v.CapacityUnit = o.CapacityUnit()
		v.Turbines = o.Turbines
		v.GeneratedKWh = ptr(o.GeneratedKWh)
		d := o.Dispatch
		v.Dispatch = &d
		v.CapitalCost = ptr(o.CapitalCost)
		v.ExportIncome = ptr(o.ExportIncome)
		v.Savings = ptr(o.AnnualSavings)
		v.PaybackYears = o.PaybackYears
	case models.Infeasible:
		v.Status = o.Status()
		v.AnnualYield = ptr(o.AnnualYield)
		v.Reason = o.Reason
	case models.DataMissing:
		v.Status = o.Status()
		v.Reason = o.Reason
		v.Sample = o.Sample
	case models.FetchFailed:
		v.Status = o.Status()
		if o.Err != nil {
			v.Error = o.Err.Error()
		}
	default:
		v.Status = models.DataMissing{}.Status()
		v.Reason = "no outcome"
	}

	return v
}

func ptr(f float64) *float64 {
	return &f
}
