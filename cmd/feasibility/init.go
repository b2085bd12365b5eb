package main

import (
	"fmt"
	"os"

	"github.com/jgoulah/feasibility/internal/config"
	"github.com/spf13/cobra"
)

var (
	initAPIKey string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  `Writes a config file with the default settings filled in, ready to edit.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "renewables.ninja API token to store in the config")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// starterConfig returns a config with every default written out
func starterConfig(apiKey string) *config.Config {
	defaults := &config.Config{}
	loss := defaults.GetSystemLoss()
	export := defaults.GetExportPrice()
	timeout, _ := defaults.GetTimeout()

	return &config.Config{
		Ninja: config.NinjaConfig{
			APIKey:     apiKey,
			Year:       defaults.GetYear(),
			Timezone:   defaults.GetTimezone(),
			SystemLoss: &loss,
			Wind: config.WindConfig{
				Height: defaults.GetWindHeight(),
				Sizing: "turbine",
			},
		},
		Tariff: config.TariffConfig{ExportPrice: &export},
		HTTP:   config.HTTPConfig{Timeout: timeout.String()},
		Cache:  config.CacheConfig{Path: defaults.GetCachePath()},
		MQTT:   config.MQTTConfig{TopicPrefix: defaults.GetTopicPrefix()},
		HomeAssistant: config.HAConfig{
			EntityPrefix: defaults.GetEntityPrefix(),
		},
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, starterConfig(initAPIKey)); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Wrote %s\n", path)
	if initAPIKey == "" {
		fmt.Printf("⚠ No API key stored; set ninja.api_key or %s\n", config.APIKeyEnv)
	}
	return nil
}
