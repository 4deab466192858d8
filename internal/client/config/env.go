package config

import "github.com/caarlos0/env/v11"

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "TODO_"

// parseEnv overlays cfg with TODO_* variables. Unset variables leave the
// current value untouched.
func parseEnv(cfg *Config) error {
	return env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix})
}
