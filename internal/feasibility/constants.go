package feasibility

// Sizing and cost assumptions used by every check.
const (
	RetailRatePerKWh         = 0.20 // value of a self-consumed kWh
	DefaultExportPricePerKWh = 0.05

	SolarAreaPerKWp   = 10.0   // m² of site per kWp installed
	SolarCapexPerKWp  = 1000.0 // currency per kWp
	WindCapexPerKW    = 1700.0 // currency per kW
	TurbineRatedKW    = 3000.0 // Enercon E-101 nameplate
	TurbineFootprintM = 367000.0
	WindAreaPerKW     = 30.0 // m² per kW in continuous sizing mode

	MaxSiteAreaSqm = 1e10 // 10,000 km²
)
