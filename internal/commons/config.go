package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"bakehouse/internal/config"
)

// LoadConfig decodes a YAML file over the default configuration, so a file
// only needs the keys it changes.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := config.Defaults()
	if err != nil {
		return nil, fmt.Errorf("building defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// Resolve picks the YAML file when a path is given and the environment otherwise.
func Resolve(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return LoadConfig(path)
}
