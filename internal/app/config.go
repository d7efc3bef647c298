package app

import "time"

// Config holds runtime configuration for the service.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// FetchTimeout bounds one upstream page fetch.
	FetchTimeout time.Duration

	// HTTP server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Logging
	Verbose bool
	LogJSON bool
}

const (
	defaultAddr            = ":8000"
	defaultFetchTimeout    = 10 * time.Second
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	// writeMargin is the time the server keeps after the upstream fetch gives
	// up, so the error response can still be written.
	writeMargin = 5 * time.Second
)

// ApplyDefaults fills every field still at its zero value with the built-in
// default. It runs last, after flags, environment and config file. An unset
// write timeout is raised when needed to outlast the fetch timeout.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
		if floor := cfg.FetchTimeout + writeMargin; cfg.WriteTimeout < floor {
			cfg.WriteTimeout = floor
		}
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
}
