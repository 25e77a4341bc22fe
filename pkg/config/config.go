package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds the optional, YAML-overridable fallback values for flags a
// user would otherwise have to repeat on every invocation (spec.md §4.5).
// Any field left zero-valued here is simply not applied; explicit CLI flags
// always take precedence over a loaded Defaults value.
type Defaults struct {
	Logging     LoggingConfig `yaml:"logging"`
	Factory     string        `yaml:"factory"`
	Caller      string        `yaml:"caller"`
	GPUDeviceID int           `yaml:"gpu_device_id"`
	Output      string        `yaml:"output"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// LoggingConfig mirrors the teacher's reporting.LoggerConfig knobs, carried
// forward as the ambient logging surface of the miner.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in fallback values applied before any
// config file or CLI flag is consulted.
func DefaultConfig() *Defaults {
	return &Defaults{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Factory:     "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		GPUDeviceID: 0,
		Output:      "output.txt",
	}
}

// Load reads a YAML defaults file at path, overlaying it onto DefaultConfig.
// A missing file is not an error: the built-in defaults are returned as-is,
// matching the teacher's "config is optional" posture.
func Load(path string) (*Defaults, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML, e.g. to emit a starting point for a
// --config file. No subcommand of createx-miner calls it.
func (c *Defaults) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge overlays the non-zero fields of flags (values explicitly set on the
// command line) onto a copy of c, returning the result. CLI flags always win.
func (c *Defaults) Merge(a CLIArgs) CLIArgs {
	merged := a
	if merged.Factory == "" {
		merged.Factory = c.Factory
	}
	if merged.Caller == "" {
		merged.Caller = c.Caller
	}
	if merged.GPUDeviceID == nil {
		merged.GPUDeviceID = &c.GPUDeviceID
	}
	if merged.Output == "" {
		merged.Output = c.Output
	}
	return merged
}
