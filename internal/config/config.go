package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "chores"
	configFile = "config.yaml"

	DefaultServer = "http://localhost:8080"
)

type Config struct {
	Server string `yaml:"server"`
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout"`
	// Sound rings the terminal bell on completion and claim.
	Sound bool   `yaml:"sound"`
	Theme string `yaml:"theme"`
	// RollbackOnFailure restores a row's styling when its action fails.
	RollbackOnFailure bool `yaml:"rollback_on_failure"`
	// LogFile receives logs while the interactive view owns the terminal.
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Server: DefaultServer,
		Sound:  true,
		Theme:  "classic",
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Load reads the config file at path (the default path when empty) and then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHORES_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("CHORES_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("CHORES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHORES_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("CHORES_SOUND"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHORES_SOUND: %w", err)
		}
		c.Sound = b
	}
	return nil
}

// StateDir is where logs are written (~/.local/state/chores).
func StateDir() (string, error) {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, xdgAppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", xdgAppName), nil
}
