package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	Fetch struct {
		Timeout duration `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	Server struct {
		ReadTimeout     duration `yaml:"readTimeout" json:"readTimeout"`
		WriteTimeout    duration `yaml:"writeTimeout" json:"writeTimeout"`
		ShutdownTimeout duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
	} `yaml:"server" json:"server"`

	Log struct {
		Verbose bool `yaml:"verbose" json:"verbose"`
		JSON    bool `yaml:"json" json:"json"`
	} `yaml:"log" json:"log"`
}

// duration accepts "10s"-style strings in both YAML and JSON.
type duration time.Duration

func (d *duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	return d.set(s)
}

func (d *duration) set(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for any fields that are
// still unset. Flags and environment have already been applied, so the file
// only supplies what they left open.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" && fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = time.Duration(fc.Fetch.Timeout)
	}
	if cfg.ReadTimeout == 0 && fc.Server.ReadTimeout > 0 {
		cfg.ReadTimeout = time.Duration(fc.Server.ReadTimeout)
	}
	if cfg.WriteTimeout == 0 && fc.Server.WriteTimeout > 0 {
		cfg.WriteTimeout = time.Duration(fc.Server.WriteTimeout)
	}
	if cfg.ShutdownTimeout == 0 && fc.Server.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = time.Duration(fc.Server.ShutdownTimeout)
	}
	if !cfg.Verbose && fc.Log.Verbose {
		cfg.Verbose = true
	}
	if !cfg.LogJSON && fc.Log.JSON {
		cfg.LogJSON = true
	}
}

// ValidateConfig performs minimal validation of the final configuration.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return errors.New("config: addr is required")
	}
	if cfg.FetchTimeout <= 0 {
		return errors.New("config: fetch.timeout must be positive")
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.ShutdownTimeout < 0 {
		return errors.New("config: negative server timeouts are not allowed")
	}
	if cfg.WriteTimeout > 0 && cfg.FetchTimeout >= cfg.WriteTimeout {
		return fmt.Errorf("config: fetch.timeout (%s) must be shorter than server.writeTimeout (%s)", cfg.FetchTimeout, cfg.WriteTimeout)
	}
	return nil
}
