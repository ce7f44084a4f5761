// Package config loads process configuration by layering defaults, an
// optional YAML file, OPTAMETRICS_ environment variables and explicitly set
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidConfig is returned when a loaded value fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Output formats accepted by Config.Output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "optametrics.yaml"

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database holding parsed matches.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsFile, when set, receives the Prometheus registry in text format
	// after each command.
	MetricsFile string `koanf:"metrics_file"`

	// SquadsPath is a default squad feed merged on parse.
	SquadsPath string `koanf:"squads_path"`

	// Output selects how tables are printed: table or json.
	Output string `koanf:"output"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"db_path":      filepath.Join(userHome(), ".optametrics", "matches.db"),
		"log_level":    "info",
		"metrics_file": "",
		"squads_path":  "",
		"output":       OutputTable,
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output %q (want %s or %s)", ErrInvalidConfig, c.Output, OutputTable, OutputJSON)
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
