package config

import "time"

// CLIConfig is the configuration for staticweb-cli.
type CLIConfig struct {
	// Output is the default output format: table, json or yaml.
	Output string `yaml:"output"`
	// Timeout bounds a probe exchange.
	Timeout time.Duration `yaml:"timeout"`
	// CAFile verifies probed servers; empty uses the system pool.
	CAFile string `yaml:"ca_file,omitempty"`
	// Insecure skips certificate verification on probes.
	Insecure bool `yaml:"insecure,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Output:  "table",
		Timeout: 10 * time.Second,
	}
}
