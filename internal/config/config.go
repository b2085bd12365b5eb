package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoulah/feasibility/internal/feasibility"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the renewables.ninja token
const APIKeyEnv = "RENEWABLES_NINJA_API_KEY"

// Config holds the application configuration
type Config struct {
	Ninja         NinjaConfig  `yaml:"ninja"`
	Tariff        TariffConfig `yaml:"tariff,omitempty"`
	HTTP          HTTPConfig   `yaml:"http,omitempty"`
	Cache         CacheConfig  `yaml:"cache,omitempty"`
	MQTT          MQTTConfig   `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig     `yaml:"home_assistant,omitempty"`
}

// NinjaConfig holds renewables.ninja request settings
type NinjaConfig struct {
	APIKey     string      `yaml:"api_key,omitempty"`
	Year       int         `yaml:"year,omitempty"`        // fallback: 2021
	Timezone   string      `yaml:"timezone,omitempty"`    // fallback: Europe/London
	SystemLoss *float64    `yaml:"system_loss,omitempty"` // fallback: 0.1
	Solar      SolarConfig `yaml:"solar,omitempty"`
	Wind       WindConfig  `yaml:"wind,omitempty"`
}

// SolarConfig tunes the PV model; unset values use the API defaults
type SolarConfig struct {
	Tilt     *float64 `yaml:"tilt,omitempty"`
	Azimuth  *float64 `yaml:"azimuth,omitempty"`
	Tracking *int     `yaml:"tracking,omitempty"`
}

// WindConfig tunes the wind model and how wind capacity is sized
type WindConfig struct {
	Height  float64 `yaml:"height,omitempty"`  // fallback: 100
	Turbine string  `yaml:"turbine,omitempty"` // e.g. "Vestas V90 2000"
	Sizing  string  `yaml:"sizing,omitempty"`  // "turbine" (default) or "continuous"
}

// TariffConfig holds tariff defaults
type TariffConfig struct {
	ExportPrice *float64 `yaml:"export_price,omitempty"` // per kWh, fallback: 0.05
}

// HTTPConfig holds settings shared by the external API clients
type HTTPConfig struct {
	Timeout   string `yaml:"timeout,omitempty"` // Go duration, fallback: 30s
	UserAgent string `yaml:"user_agent,omitempty"`
}

// CacheConfig holds the HTTP response cache settings
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // fallback: ./cache.db
	TTL     string `yaml:"ttl,omitempty"`  // Go duration, empty = never expire
}

// MQTTConfig holds MQTT broker settings for publishing results
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: feasibility
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`                     // e.g., "http://homeassistant.local:8123"
	Token        string `yaml:"token"`                   // Long-lived access token
	EntityPrefix string `yaml:"entity_prefix,omitempty"` // fallback: sensor.feasibility
}

// Load reads the config file and applies environment overrides from the
// process environment and a .env file in the working directory
func Load(configPath string) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Ninja.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Validate checks values that cannot be checked by the YAML decoder
func (c *Config) Validate() error {
	if _, err := c.GetTimeout(); err != nil {
		return err
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return err
	}
	if c.Ninja.SystemLoss != nil && (*c.Ninja.SystemLoss < 0 || *c.Ninja.SystemLoss > 1) {
		return fmt.Errorf("ninja.system_loss must be between 0 and 1 (got %g)", *c.Ninja.SystemLoss)
	}
	if t := c.Ninja.Solar.Tracking; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("ninja.solar.tracking must be 0, 1 or 2 (got %d)", *t)
	}
	if p := c.Tariff.ExportPrice; p != nil && *p < 0 {
		return fmt.Errorf("tariff.export_price must not be negative (got %g)", *p)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.HomeAssistant.Enabled && (c.HomeAssistant.URL == "" || c.HomeAssistant.Token == "") {
		return fmt.Errorf("home_assistant.url and home_assistant.token are required when home_assistant is enabled")
	}
	return nil
}

// GetYear returns the generation-data year with a default of 2021
func (c *Config) GetYear() int {
	if c.Ninja.Year <= 0 {
		return 2021
	}
	return c.Ninja.Year
}

// GetTimezone returns the timezone for generation data
func (c *Config) GetTimezone() string {
	if c.Ninja.Timezone == "" {
		return "Europe/London"
	}
	return c.Ninja.Timezone
}

// GetSystemLoss returns the PV system loss fraction
func (c *Config) GetSystemLoss() float64 {
	if c.Ninja.SystemLoss == nil {
		return 0.1
	}
	return *c.Ninja.SystemLoss
}

// GetWindHeight returns the wind hub height in meters
func (c *Config) GetWindHeight() float64 {
	if c.Ninja.Wind.Height <= 0 {
		return 100
	}
	return c.Ninja.Wind.Height
}

// GetExportPrice returns the default export price per kWh
func (c *Config) GetExportPrice() float64 {
	if c.Tariff.ExportPrice == nil {
		return feasibility.DefaultExportPricePerKWh
	}
	return *c.Tariff.ExportPrice
}

// GetTimeout returns the per-call timeout for external APIs
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.HTTP.Timeout == "" {
		return feasibility.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("http.timeout must be a positive duration (got %q)", c.HTTP.Timeout)
	}
	return d, nil
}

// GetCachePath returns the cache database path
func (c *Config) GetCachePath() string {
	if c.Cache.Path == "" {
		return "cache.db"
	}
	return c.Cache.Path
}

// GetCacheTTL returns how long cached responses are served, 0 for forever
func (c *Config) GetCacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("cache.ttl must be a non-negative duration (got %q)", c.Cache.TTL)
	}
	return d, nil
}

// GetTopicPrefix returns the MQTT topic prefix
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "feasibility"
	}
	return c.MQTT.TopicPrefix
}

// GetEntityPrefix returns the Home Assistant entity prefix
func (c *Config) GetEntityPrefix() string {
	if c.HomeAssistant.EntityPrefix == "" {
		return "sensor.feasibility"
	}
	return c.HomeAssistant.EntityPrefix
}
