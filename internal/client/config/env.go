package config

import "github.com/caarlos0/env/v11"

// EnvPrefix prefixes every environment variable the client reads.
const EnvPrefix = "NOTES_"

// parseEnv overlays Config with NOTES_* environment variables. Unset
// variables leave the current values alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
