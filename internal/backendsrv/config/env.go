package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with values from HANDTEXT_SRV_* environment
// variables (see the env tags on Config).
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
