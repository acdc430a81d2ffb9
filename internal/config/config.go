// Package config provides YAML-based configuration loading for Liftwright.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Liftwright configuration, loaded from liftwright.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Planning PlanningConfig `yaml:"planning"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`
}

// PlanningConfig holds planner defaults applied when a request omits them.
type PlanningConfig struct {
	Timezone        string `yaml:"timezone"`
	DefaultStrategy string `yaml:"default_strategy"`
	AutoRollover    bool   `yaml:"auto_rollover"`
}

// SeedConfig points at optional seed-data overrides. Empty paths mean the
// embedded defaults are used.
type SeedConfig struct {
	ExercisesPath string `yaml:"exercises"`
	TemplatesPath string `yaml:"templates"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied, for callers that run
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" {
		c.Database.Database = "liftwright"
	}
	if c.Planning.Timezone == "" {
		c.Planning.Timezone = "UTC"
	}
	if c.Planning.DefaultStrategy == "" {
		c.Planning.DefaultStrategy = "ULF_2C"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Planning.DefaultStrategy {
	case "ULF_2C", "FULL_3", "UL_4", "CUSTOM":
	default:
		errs = append(errs, fmt.Sprintf("planning.default_strategy %q is not a known strategy", c.Planning.DefaultStrategy))
	}
	if c.Seed.ExercisesPath != "" {
		if _, err := os.Stat(c.Seed.ExercisesPath); err != nil {
			errs = append(errs, fmt.Sprintf("seed.exercises %q is not readable", c.Seed.ExercisesPath))
		}
	}
	if c.Seed.TemplatesPath != "" {
		if _, err := os.Stat(c.Seed.TemplatesPath); err != nil {
			errs = append(errs, fmt.Sprintf("seed.templates %q is not readable", c.Seed.TemplatesPath))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
