// Package config defines the simulator configuration and loads it from YAML
// files and FINPULSE_* environment variables.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/iwvelando/finpulse/internal/simulate"
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/constants"
)

// EnvPrefix prefixes environment overrides, e.g. FINPULSE_SIMULATOR_SEED.
const EnvPrefix = "FINPULSE"

// Configuration holds all configuration for finpulse.
type Configuration struct {
	Simulator SimulatorConfig `mapstructure:"simulator" yaml:"simulator"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// SimulatorConfig controls the simulation cadence and variation.
type SimulatorConfig struct {
	Interval   time.Duration   `mapstructure:"interval" yaml:"interval"`
	Latency    time.Duration   `mapstructure:"latency" yaml:"latency"`
	Seed       int64           `mapstructure:"seed" yaml:"seed"`
	Dashboards []string        `mapstructure:"dashboards" yaml:"dashboards"`
	Variation  VariationConfig `mapstructure:"variation" yaml:"variation"`
}

// VariationConfig holds the per-field variation fractions of each dashboard.
type VariationConfig struct {
	Tax     simulate.TaxVariation     `mapstructure:"tax" yaml:"tax"`
	Revenue simulate.RevenueVariation `mapstructure:"revenue" yaml:"revenue"`
	Leases  simulate.LeaseVariation   `mapstructure:"leases" yaml:"leases"`
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	profile := simulate.DefaultProfile()
	dashboards := make([]string, len(profile.Live))
	for i, d := range profile.Live {
		dashboards[i] = string(d)
	}
	return &Configuration{
		Simulator: SimulatorConfig{
			Interval:   constants.DefaultInterval,
			Latency:    constants.DefaultLatency,
			Dashboards: dashboards,
			Variation: VariationConfig{
				Tax:     profile.Tax,
				Revenue: profile.Revenue,
				Leases:  profile.Leases,
			},
		},
		Output: OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Unset keys keep their defaults. An empty path loads
// defaults and environment overrides only.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("simulator.interval", def.Simulator.Interval)
	v.SetDefault("simulator.latency", def.Simulator.Latency)
	v.SetDefault("simulator.seed", def.Simulator.Seed)
	v.SetDefault("simulator.dashboards", def.Simulator.Dashboards)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	for name, fraction := range simulate.DefaultProfile().Fractions() {
		v.SetDefault("simulator.variation."+name, fraction)
	}
}

// Profile converts the simulator settings into a simulation profile.
func (c *Configuration) Profile() (simulate.Profile, error) {
	profile := c.variation()

	var err error
	for _, name := range c.Simulator.Dashboards {
		d, parseErr := snapshot.ParseDashboard(name)
		if parseErr != nil {
			err = multierr.Append(err, parseErr)
			continue
		}
		profile.Live = append(profile.Live, d)
	}
	if err != nil {
		return simulate.Profile{}, err
	}
	if err := profile.Validate(); err != nil {
		return simulate.Profile{}, err
	}
	return profile, nil
}

// Validate reports configuration errors that prevent the simulator from
// starting.
func (c *Configuration) Validate() error {
	var err error
	if c.Simulator.Interval < constants.MinInterval {
		err = multierr.Append(err, fmt.Errorf("simulator interval %s is below the minimum of %s", c.Simulator.Interval, constants.MinInterval))
	}
	if c.Simulator.Latency < 0 {
		err = multierr.Append(err, fmt.Errorf("simulator latency %s is negative", c.Simulator.Latency))
	}
	if _, profileErr := c.Profile(); profileErr != nil {
		err = multierr.Append(err, profileErr)
	}
	return err
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Simulator.Latency >= c.Simulator.Interval && c.Simulator.Interval > 0 {
		warnings = append(warnings, fmt.Sprintf("latency %s is not shorter than interval %s, timer cycles will run back to back",
			c.Simulator.Latency, c.Simulator.Interval))
	}

	if len(c.Simulator.Dashboards) == 0 {
		warnings = append(warnings, "no dashboards are live, snapshots will only advance their sequence")
	}

	seen := make(map[string]bool)
	for _, name := range c.Simulator.Dashboards {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("dashboard %q is listed more than once", name))
		}
		seen[key] = true
	}

	for name, fraction := range c.variation().Fractions() {
		if fraction == 0 {
			warnings = append(warnings, fmt.Sprintf("variation %s is 0, the field will never change", name))
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging level %q", c.Logging.Level))
	}

	sort.Strings(warnings)
	return warnings
}

func (c *Configuration) variation() simulate.Profile {
	return simulate.Profile{
		Tax:     c.Simulator.Variation.Tax,
		Revenue: c.Simulator.Variation.Revenue,
		Leases:  c.Simulator.Variation.Leases,
	}
}
