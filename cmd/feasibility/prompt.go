package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jgoulah/feasibility/internal/feasibility"
	"github.com/jgoulah/feasibility/pkg/models"
	"github.com/spf13/cobra"
)

var promptJSON bool

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Run a feasibility check interactively",
	Long:  `Asks for the site details one at a time and then runs a feasibility check. Press Ctrl+C to abort.`,
	RunE:  runPrompt,
}

func init() {
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(promptCmd)
}

// lineReader is the part of *readline.Instance the form needs
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// form asks questions on a lineReader, re-asking until the answer parses
type form struct {
	rl lineReader
}

func (f *form) ask(question, def string) (string, error) {
	prompt := question + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", question, def)
	}
	f.rl.SetPrompt(prompt)

	line, err := f.rl.Readline()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (f *form) askString(question string) (string, error) {
	for {
		s, err := f.ask(question, "")
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		fmt.Println("⚠ A value is required")
	}
}

func (f *form) askFloat(question string, def float64) (float64, error) {
	for {
		s, err := f.ask(question, strconv.FormatFloat(def, 'f', -1, 64))
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && v >= 0 && !math.IsInf(v, 0) {
			return v, nil
		}
		fmt.Printf("⚠ %q is not a non-negative number\n", s)
	}
}

func (f *form) askBool(question string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	for {
		s, err := f.ask(question+" (y/n)", d)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Printf("⚠ Please answer y or n\n")
	}
}

func (f *form) askUnit() (feasibility.AreaUnit, error) {
	for {
		s, err := f.ask("Unit (sqm, hectares, acres)", string(feasibility.SquareMeters))
		if err != nil {
			return "", err
		}
		unit, err := feasibility.ParseAreaUnit(s)
		if err == nil {
			return unit, nil
		}
		fmt.Printf("⚠ %v\n", err)
	}
}

// collect fills a request from the answers. defaultExport is in
// currency per kWh; the question is asked in p/kWh.
func (f *form) collect(defaultExport float64) (feasibility.RequestInput, error) {
	var in feasibility.RequestInput
	var err error

	if in.Postcode, err = f.askString("Enter UK Postcode"); err != nil {
		return in, err
	}
	if in.SiteSize, err = f.askFloat("Site Size", 0); err != nil {
		return in, err
	}
	if in.SiteUnit, err = f.askUnit(); err != nil {
		return in, err
	}
	if in.ConsumptionKWh, err = f.askFloat("Annual Energy Consumption (kWh/year)", 0); err != nil {
		return in, err
	}
	pence, err := f.askFloat("Export Price (p/kWh)", defaultExport*100)
	if err != nil {
		return in, err
	}
	in.ExportPrice = pence / 100

	withBattery, err := f.askBool("Include battery storage?", false)
	if err != nil || !withBattery {
		return in, err
	}

	battery := &models.BatteryParameters{}
	if battery.CapacityKWh, err = f.askFloat("Battery Capacity (kWh)", 10); err != nil {
		return in, err
	}
	for {
		pct, err := f.askFloat("Round-trip Efficiency (%)", 90)
		if err != nil {
			return in, err
		}
		if pct <= 100 {
			battery.RoundTripEfficiency = pct / 100
			break
		}
		fmt.Println("⚠ Efficiency must be between 0 and 100")
	}
	if battery.CostPerKWh, err = f.askFloat("Battery Cost (£/kWh)", 500); err != nil {
		return in, err
	}
	in.Battery = battery

	return in, nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: getHistoryFilePath(),
	})
	if err != nil {
		return fmt.Errorf("initializing prompt: %w", err)
	}
	defer rl.Close()

	fmt.Println("Renewable Energy Feasibility Check")
	fmt.Println("----------------------------------------")

	f := &form{rl: rl}
	in, err := f.collect(cfg.GetExportPrice())
	if errors.Is(err, readline.ErrInterrupt) {
		fmt.Println("Aborted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	in.Year = cfg.GetYear()
	if in.WindSizing, err = feasibility.ParseWindSizing(cfg.Ninja.Wind.Sizing); err != nil {
		return err
	}

	fmt.Println()
	return executeCheck(cmd.Context(), cfg, in, promptJSON, false)
}

// getHistoryFilePath returns the path for the prompt history file
func getHistoryFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "" // No history if we can't find home
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "feasibility")
	_ = os.MkdirAll(dir, 0750)
	return filepath.Join(dir, "prompt_history")
}
