package models

import "time"

// Dispatch is the annual split of generated energy between on-site use,
// storage and export
type Dispatch struct {
	UsedDirectKWh float64 `json:"used_direct_kwh"`
	ExcessKWh     float64 `json:"excess_kwh"`
	StoredKWh     float64 `json:"stored_kwh"`
	UsedKWh       float64 `json:"used_kwh"`
	ExportedKWh   float64 `json:"exported_kwh"`
}

// Outcome is the per-technology result of a feasibility check. It is one of
// *TechnologyResult, Infeasible, DataMissing or FetchFailed.
type Outcome interface {
	Technology() Technology
	Status() string
}

// TechnologyResult holds sizing and economics for one technology
type TechnologyResult struct {
	Tech              Technology `json:"technology"`
	AnnualYield       float64    `json:"annual_yield"`       // kWh per kW(p) per year
	InstalledCapacity float64    `json:"installed_capacity"` // kWp for solar, kW for wind
	Turbines          int        `json:"turbines,omitzero"`
	GeneratedKWh      float64    `json:"generated_kwh"`
	Dispatch          Dispatch   `json:"dispatch"`
	CapitalCost       float64    `json:"capital_cost"`
	ExportIncome      float64    `json:"export_income"`
	AnnualSavings     float64    `json:"annual_savings"`
	PaybackYears      *float64   `json:"payback_years"` // nil when savings are not positive
}

func (r *TechnologyResult) Technology() Technology { return r.Tech }
func (r *TechnologyResult) Status() string         { return "ok" }

// CapacityUnit returns the unit InstalledCapacity is expressed in
func (r *TechnologyResult) CapacityUnit() string {
	if r.Tech == Solar {
		return "kWp"
	}
	return "kW"
}

// Infeasible reports a technology that cannot be installed on the site
type Infeasible struct {
	Tech        Technology `json:"technology"`
	AnnualYield float64    `json:"annual_yield"`
	Reason      string     `json:"reason"`
}

func (i Infeasible) Technology() Technology { return i.Tech }
func (i Infeasible) Status() string         { return "infeasible" }

// DataMissing reports generation data that was empty or unparseable
type DataMissing struct {
	Tech   Technology `json:"technology"`
	Reason string     `json:"reason"`
	Sample string     `json:"sample,omitempty"`
}

func (d DataMissing) Technology() Technology { return d.Tech }
func (d DataMissing) Status() string         { return "data_missing" }

// FetchFailed reports a generation-data download that did not succeed
type FetchFailed struct {
	Tech Technology `json:"technology"`
	Err  error      `json:"-"`
}

func (f FetchFailed) Technology() Technology { return f.Tech }
func (f FetchFailed) Status() string         { return "fetch_failed" }

// WarningKind classifies a non-fatal warning
type WarningKind string

const (
	WarnNoData          WarningKind = "no_data"
	WarnUnexpectedShape WarningKind = "unexpected_shape"
	WarnInfeasible      WarningKind = "infeasible"
)

// Warning is a non-fatal problem collected while running a check
type Warning struct {
	Technology Technology  `json:"technology"`
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	Sample     string      `json:"sample,omitempty"` // raw payload for diagnosis
}

// Report is the complete output of one feasibility check
type Report struct {
	RequestID   string             `json:"request_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Location    Location           `json:"location"`
	Site        SiteParameters     `json:"site"`
	Tariff      TariffParameters   `json:"tariff"`
	Battery     *BatteryParameters `json:"battery,omitempty"`
	Year        int                `json:"year"`
	Solar       Outcome            `json:"-"`
	Wind        Outcome            `json:"-"`
	Warnings    []Warning          `json:"warnings"`
}

// Outcome returns the outcome for the given technology
func (r *Report) Outcome(tech Technology) Outcome {
	switch tech {
	case Solar:
		return r.Solar
	case Wind:
		return r.Wind
	default:
		return nil
	}
}
