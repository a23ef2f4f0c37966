package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. SHINEMARK_MODE.
const EnvPrefix = "shinemark"

// Env holds the settings that may be overridden from the environment.
type Env struct {
	Config    string `envconfig:"CONFIG"`
	Mode      string `envconfig:"MODE"`
	Output    string `envconfig:"OUTPUT"`
	PluginDir string `envconfig:"PLUGIN_DIR"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
}

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by -config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, if any, then applies environment
// overrides.
func (l *Loader) Load() (*Config, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if l.OverridePath == "" {
		l.OverridePath = env.Config
	}

	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	env.apply(cfg)
	return cfg, nil
}

func (e Env) apply(cfg *Config) {
	if e.Mode != "" {
		cfg.Mode = e.Mode
	}
	if e.Output != "" {
		cfg.Output = e.Output
	}
	if e.PluginDir != "" {
		cfg.PluginDir = e.PluginDir
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".shinemarkrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if p := XDGPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// XDGPath is where `config save` writes and the last place Load looks.
func XDGPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shinemark", "config.rc")
}
