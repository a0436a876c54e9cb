package config

import (
	"fmt"

	"github.com/yndnr/staticweb-go/internal/infra/confloader"
)

// Load layers defaults, the YAML file at path (skipped when empty) and
// STATICWEB_ environment variables, then verifies the result.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	var opts []confloader.Option
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
