package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config.yaml"

// Load reads configuration from a YAML file plus environment variables,
// with ENV taking priority over the file and env-default tags supplying
// the rest. CONFIG_PATH selects the file; when it is unset and the
// default file is absent, everything comes from ENV and defaults.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = defaultConfigPath
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicitPath:
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
