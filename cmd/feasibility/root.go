package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jgoulah/feasibility/internal/cache"
	"github.com/jgoulah/feasibility/internal/config"
	"github.com/jgoulah/feasibility/internal/feasibility"
	"github.com/jgoulah/feasibility/internal/geocode"
	"github.com/jgoulah/feasibility/internal/ninja"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cachePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "feasibility",
	Short: "Estimate solar and wind feasibility for a UK site",
	Long: `Feasibility is a CLI tool that estimates whether solar PV or wind generation
makes financial sense for a site. It geocodes a UK postcode with postcodes.io,
downloads a year of modeled generation from renewables.ninja, sizes each
technology to the site and reports capital cost, annual savings and payback.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "response cache file (default from config, or ./cache.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostic output to stderr")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getCachePath returns the cache database path
func getCachePath(cfg *config.Config) string {
	if cachePath != "" {
		return cachePath
	}
	return cfg.GetCachePath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openCache opens the response cache database
func openCache(cfg *config.Config) (*cache.DB, error) {
	path := getCachePath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return cache.Open(path)
}

// newLogger returns the diagnostic logger, discarding output unless --verbose
func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// newChecker wires the API clients into a Checker. The returned close
// function releases the cache database when one is in use.
func newChecker(cfg *config.Config) (*feasibility.Checker, func(), error) {
	logger := newLogger()
	closeFn := func() {}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, nil, err
	}

	var rt http.RoundTripper = http.DefaultTransport
	if cfg.Cache.Enabled {
		ttl, err := cfg.GetCacheTTL()
		if err != nil {
			return nil, nil, err
		}
		db, err := openCache(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		crt := cache.NewRoundTripper(http.DefaultTransport, db, ttl)
		crt.Logger = logger
		rt = crt
		closeFn = func() { db.Close() }
	}

	geo := geocode.NewClient(rt)
	if ua := cfg.HTTP.UserAgent; ua != "" {
		geo.SetUserAgent(ua)
	}

	opts := ninja.DefaultOptions()
	opts.APIKey = cfg.Ninja.APIKey
	opts.Timezone = cfg.GetTimezone()
	opts.SystemLoss = cfg.GetSystemLoss()
	opts.UserAgent = cfg.HTTP.UserAgent
	opts.Solar = ninja.SolarOptions{
		Tilt:     cfg.Ninja.Solar.Tilt,
		Azimuth:  cfg.Ninja.Solar.Azimuth,
		Tracking: cfg.Ninja.Solar.Tracking,
	}
	opts.Wind = ninja.WindOptions{
		Height:  cfg.GetWindHeight(),
		Turbine: cfg.Ninja.Wind.Turbine,
	}
	src := ninja.NewClient(rt, opts)

	checker := feasibility.NewChecker(geo, src, timeout)
	checker.SetLogger(logger)
	return checker, closeFn, nil
}
