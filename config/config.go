// Package config loads the single YAML document that configures an assembled
// voxnet stack. Each section is validated by the package that owns it. The
// sender and outbound defaults come from their packages' DefaultConfig; the
// log section's defaults are set here in Default.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/linchenxuan/voxnet/log"
	"github.com/linchenxuan/voxnet/metrics"
	"github.com/linchenxuan/voxnet/network/editsender"
	"github.com/linchenxuan/voxnet/network/outbound"
)

// Config is the full stack configuration.
type Config struct {
	Log      log.LogCfg                       `yaml:"log"`
	Sender   editsender.Config                `yaml:"sender"`
	Outbound outbound.Config                  `yaml:"outbound"`
	Metrics  metrics.PrometheusReporterConfig `yaml:"metrics"`
}

// Default returns the stack defaults: console logging at info level, standard
// batching limits, no metrics endpoint.
func Default() *Config {
	return &Config{
		Log: log.LogCfg{
			LogLevel:          log.InfoLevel,
			ConsoleAppender:   true,
			EnabledCallerInfo: true,
			CallerSkip:        1,
			FileSplitMB:       50,
		},
		Sender:   editsender.DefaultConfig(),
		Outbound: outbound.DefaultConfig(),
	}
}

// Load reads path and unmarshals it over the defaults, so absent keys keep
// their default values. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	return Parse(data)
}

// Parse unmarshals a YAML document over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate delegates to every section's owner.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return errors.Wrap(err, "log config")
	}
	if err := c.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender config")
	}
	if err := c.Outbound.Validate(); err != nil {
		return errors.Wrap(err, "outbound config")
	}
	return nil
}
