// ABOUTME: Configuration loading and parsing for santa-exchange
// ABOUTME: Supports YAML files with environment variable expansion and defaults

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverSQLite = "sqlite"
	DriverFiles  = "files"
)

// Config represents the complete santa-exchange configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Event    EventConfig    `yaml:"event"`
	Sessions SessionsConfig `yaml:"sessions"`
	Web      WebConfig      `yaml:"web"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig selects and locates the durable wish-note store.
// Driver "sqlite" keeps all records in one database file; "files" keeps one
// JSON document per note (the original deployment's layout).
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// EventConfig locates the event manifest. Optional; without one both
// submissions and the draw are open.
type EventConfig struct {
	Manifest string `yaml:"manifest"`
}

// SessionsConfig tunes the session registry.
type SessionsConfig struct {
	// OverflowSlack is how many anonymous sessions beyond the known-author
	// count the registry keeps before evicting the oldest ones.
	// 0 means the default (1024).
	OverflowSlack int `yaml:"overflow_slack"`
}

// WebConfig holds presentation-layer configuration
type WebConfig struct {
	// StaticDir is served under /static/. Optional.
	StaticDir string `yaml:"static_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in values that may be omitted from the file.
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverFiles:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverFiles, c.Database.Driver)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Sessions.OverflowSlack < 0 {
		return fmt.Errorf("sessions.overflow_slack must not be negative")
	}

	return nil
}
