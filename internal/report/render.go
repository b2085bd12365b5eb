package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/jgoulah/feasibility/internal/feasibility"
	"github.com/jgoulah/feasibility/pkg/models"
)

var titles = map[models.Technology]string{
	models.Solar: "Solar PV",
	models.Wind:  "Wind",
}

var names = map[models.Technology]string{
	models.Solar: "Solar",
	models.Wind:  "Wind",
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *models.Report) error {
	if err := json.MarshalWrite(w, NewView(r), jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteText writes the human-readable report
func WriteText(w io.Writer, r *models.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Feasibility for %s (%.4f, %.4f) ===\n", r.Location.Postcode, r.Location.Latitude, r.Location.Longitude)
	fmt.Fprintf(&b, "Site area: %s m² | Consumption: %s kWh/year | Export: %.1fp/kWh | Data year: %d\n",
		money(r.Site.AreaSqm), money(r.Site.AnnualConsumptionKWh), r.Tariff.ExportPricePerKWh*100, r.Year)
	if r.Battery != nil {
		fmt.Fprintf(&b, "Battery: %s kWh at %.0f%% round-trip, £%s/kWh\n",
			humanize.FormatFloat("#,###.#", r.Battery.CapacityKWh), r.Battery.RoundTripEfficiency*100, money(r.Battery.CostPerKWh))
	}

	for _, tech := range models.Technologies {
		b.WriteString("\n")
		writeOutcome(&b, tech, r.Outcome(tech))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warn := range r.Warnings {
			fmt.Fprintf(&b, "⚠ [%s] %s\n", warn.Technology, warn.Message)
			if warn.Sample != "" {
				fmt.Fprintf(&b, "   Sample: %s\n", warn.Sample)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeOutcome(b *strings.Builder, tech models.Technology, o models.Outcome) {
	fmt.Fprintf(b, "--- %s ---\n", titles[tech])

	switch o := o.(type) {
	case *models.TechnologyResult:
		fmt.Fprintf(b, "Annual %s Yield (kWh/%s): %s\n", names[tech], o.CapacityUnit(), humanize.FormatFloat("#,###.##", o.AnnualYield))
		if tech == models.Wind && o.Turbines > 0 {
			fmt.Fprintf(b, "Estimated Turbines: %d x %gMW\n", o.Turbines, feasibility.TurbineRatedKW/1000)
		}
		fmt.Fprintf(b, "Estimated System Size: %s %s\n", humanize.FormatFloat("#,###.##", o.InstalledCapacity), o.CapacityUnit())
		fmt.Fprintf(b, "Annual Generation: %s kWh\n", money(o.GeneratedKWh))
		fmt.Fprintf(b, "Used On Site: %s kWh | Exported: %s kWh\n", money(o.Dispatch.UsedKWh), money(o.Dispatch.ExportedKWh))
		if o.Dispatch.StoredKWh > 0 {
			fmt.Fprintf(b, "Shifted Via Battery: %s kWh\n", money(o.Dispatch.StoredKWh))
		}
		fmt.Fprintf(b, "CapEx: £%s\n", money(o.CapitalCost))
		fmt.Fprintf(b, "Annual Savings: £%s\n", money(o.AnnualSavings))
		fmt.Fprintf(b, "Estimated Payback: %s\n", Payback(o.PaybackYears))
	case models.Infeasible:
		fmt.Fprintf(b, "⚠ %s\n", o.Reason)
	case models.DataMissing:
		fmt.Fprintf(b, "⚠ %s\n", o.Reason)
	case models.FetchFailed:
		fmt.Fprintf(b, "⚠ Could not fetch %s data: %v\n", tech, o.Err)
	default:
		fmt.Fprintf(b, "⚠ No result for %s\n", tech)
	}
}

// Payback formats a payback period, "N/A" when there is none
func Payback(years *float64) string {
	if years == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f years", *years)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.", v)
}
