// Package config loads gridlayout settings from defaults, an optional YAML
// file and GRIDLAYOUT_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the process-wide settings.
type Config struct {
	DBPath        string `yaml:"db_path"`
	Addr          string `yaml:"addr"`
	LogCalls      bool   `yaml:"log_calls"`
	DefaultRegion string `yaml:"default_region"`
	BaseURL       string `yaml:"base_url"`
}

// Default returns the built-in settings. The database lives under the
// user's home directory.
func Default() Config {
	dbPath := "gridlayout.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".gridlayout", "gridlayout.db")
	}
	return Config{
		DBPath:        dbPath,
		Addr:          "127.0.0.1:8080",
		DefaultRegion: "content",
		BaseURL:       "/",
	}
}

// Load builds the configuration. GRIDLAYOUT_CONFIG names an optional YAML
// file whose keys override the defaults; environment variables override
// both.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("GRIDLAYOUT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GRIDLAYOUT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GRIDLAYOUT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("GRIDLAYOUT_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GRIDLAYOUT_DEFAULT_REGION"); v != "" {
		c.DefaultRegion = v
	}
	if v := os.Getenv("GRIDLAYOUT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DefaultRegion == "" {
		return fmt.Errorf("default_region is required")
	}
	return nil
}
