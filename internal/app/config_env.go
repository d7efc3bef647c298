package app

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values (from flags) take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("ADDR")
	}
	if cfg.Addr == "" {
		// PORT alone is common on container platforms
		if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
			cfg.Addr = ":" + p
		}
	}

	setDuration := func(dst *time.Duration, envKey string) {
		if *dst != 0 {
			return
		}
		s := strings.TrimSpace(os.Getenv(envKey))
		if s == "" {
			return
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			log.Warn().Err(err).Str("env", envKey).Msg("ignoring invalid duration")
			return
		}
		*dst = d
	}
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setDuration(&cfg.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.LogJSON, "LOG_JSON")
}
