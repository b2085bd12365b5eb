package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/internal/feasibility"
	"github.com/jgoulah/feasibility/internal/publisher"
	"github.com/jgoulah/feasibility/internal/report"
	"github.com/jgoulah/feasibility/pkg/models"
	"github.com/spf13/cobra"
)

var (
	checkPostcode          string
	checkSize              float64
	checkUnit              string
	checkConsumption       float64
	checkExportPence       float64
	checkBattery           bool
	checkBatteryCapacity   float64
	checkBatteryEfficiency float64
	checkBatteryCost       float64
	checkYear              int
	checkWindSizing        string
	checkJSON              bool
	checkPublish           bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a feasibility check for a site",
	Long: `Resolves the postcode, downloads a year of solar and wind generation data and
reports the system size, capital cost, annual savings and payback for each technology.`,
	Example: `  feasibility check --postcode "SW1A 1AA" --size 2 --unit hectares --consumption 50000
  feasibility check --postcode "EH1 1YZ" --size 1000 --consumption 5000 --battery --battery-capacity 13.5 --json`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPostcode, "postcode", "", "UK postcode of the site (required)")
	checkCmd.Flags().Float64Var(&checkSize, "size", 0, "site size, in --unit")
	checkCmd.Flags().StringVar(&checkUnit, "unit", "sqm", "site size unit (sqm, hectares or acres)")
	checkCmd.Flags().Float64Var(&checkConsumption, "consumption", 0, "annual energy consumption in kWh/year")
	checkCmd.Flags().Float64Var(&checkExportPence, "export-price", 0, "export price in p/kWh (default from config, or 5)")
	checkCmd.Flags().BoolVar(&checkBattery, "battery", false, "include battery storage")
	checkCmd.Flags().Float64Var(&checkBatteryCapacity, "battery-capacity", 10, "battery capacity in kWh")
	checkCmd.Flags().Float64Var(&checkBatteryEfficiency, "battery-efficiency", 90, "battery round-trip efficiency in percent")
	checkCmd.Flags().Float64Var(&checkBatteryCost, "battery-cost", 500, "battery cost per kWh")
	checkCmd.Flags().IntVar(&checkYear, "year", 0, "year of generation data (default from config, or 2021)")
	checkCmd.Flags().StringVar(&checkWindSizing, "wind-sizing", "", "wind sizing mode: turbine or continuous (default from config, or turbine)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().BoolVar(&checkPublish, "publish", false, "publish results to the MQTT and Home Assistant destinations in config")
	if err := checkCmd.MarkFlagRequired("postcode"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	unit, err := feasibility.ParseAreaUnit(checkUnit)
	if err != nil {
		return err
	}

	in := feasibility.RequestInput{
		Postcode:       checkPostcode,
		SiteSize:       checkSize,
		SiteUnit:       unit,
		ConsumptionKWh: checkConsumption,
		ExportPrice:    cfg.GetExportPrice(),
		Year:           cfg.GetYear(),
	}
	if cmd.Flags().Changed("export-price") {
		in.ExportPrice = checkExportPence / 100
	}
	if checkYear != 0 {
		in.Year = checkYear
	}
	if checkBattery {
		in.Battery = &models.BatteryParameters{
			CapacityKWh:         checkBatteryCapacity,
			RoundTripEfficiency: checkBatteryEfficiency / 100,
			CostPerKWh:          checkBatteryCost,
		}
	}

	sizing := cfg.Ninja.Wind.Sizing
	if checkWindSizing != "" {
		sizing = checkWindSizing
	}
	if in.WindSizing, err = feasibility.ParseWindSizing(sizing); err != nil {
		return err
	}

	return executeCheck(cmd.Context(), cfg, in, checkJSON, checkPublish)
}

// executeCheck runs one check and prints the report. It is shared by the
// check and prompt commands.
func executeCheck(ctx context.Context, cfg *config.Config, in feasibility.RequestInput, asJSON, publish bool) error {
	req, err := feasibility.NewRequest(in)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	checker, closeCache, err := newChecker(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	status := os.Stdout
	if asJSON {
		status = os.Stderr
	}
	if cfg.Ninja.APIKey == "" {
		fmt.Fprintf(status, "⚠ No renewables.ninja API key configured (set %s or ninja.api_key)\n", config.APIKeyEnv)
	}
	fmt.Fprintf(status, "Checking %s (%.0f m², %.0f kWh/year, data year %d)...\n",
		req.Postcode, req.Site.AreaSqm, req.Site.AnnualConsumptionKWh, req.Year)

	start := time.Now()
	rep, err := checker.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(status, "✓ Assessment complete in %s\n\n", time.Since(start).Round(time.Millisecond))

	if asJSON {
		err = report.WriteJSON(os.Stdout, rep)
	} else {
		err = report.WriteText(os.Stdout, rep)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if publish {
		return publishReport(ctx, cfg, rep, status)
	}
	return nil
}

func publishReport(ctx context.Context, cfg *config.Config, rep *models.Report, status *os.File) error {
	pub, err := publisher.New(cfg)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	fmt.Fprintf(status, "\nPublishing to %v... ", pub.Destinations())
	if err := pub.Publish(ctx, rep); err != nil {
		fmt.Fprintf(status, "FAILED\n")
		return fmt.Errorf("publishing report: %w", err)
	}
	fmt.Fprintf(status, "✓\n")
	return nil
}
