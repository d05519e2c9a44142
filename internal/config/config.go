// Package config locates vtcore's on-disk home (~/.vtcore), loads its
// optional YAML config file, and manages per-session metadata and locking
// under that directory.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional ~/.vtcore/config.yaml file. Every field has a
// usable zero value, so a missing file is equivalent to an empty Config.
type Config struct {
	Shell   string `yaml:"shell"`
	FontW   int    `yaml:"font_width"`
	FontH   int    `yaml:"font_height"`
	Rows    int    `yaml:"rows"`
	Cols    int    `yaml:"cols"`
}

// ConfigDir returns vtcore's configuration directory (~/.vtcore).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vtcore")
	}
	return filepath.Join(home, ".vtcore")
}

// Load reads the config from ~/.vtcore/config.yaml. A missing file is not
// an error: Load returns a zero-value Config.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from the given path, with the same
// missing-file behavior as Load.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in zero fields with vtcore's built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.Shell == "" {
		c.Shell = defaultShell()
	}
	if c.FontW == 0 {
		c.FontW = 8
	}
	if c.FontH == 0 {
		c.FontH = 16
	}
	if c.Rows == 0 {
		c.Rows = 24
	}
	if c.Cols == 0 {
		c.Cols = 80
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}
