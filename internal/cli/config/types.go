// Package config provides configuration management for the csvgen CLI.
//
// The shared target type lives in pkg/core and is re-exported here
// via a type alias for convenience.
package config

import (
	"log/slog"

	"github.com/leapstack-labs/csvgen/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string        `koanf:"state_path"`
	History      bool          `koanf:"history"`
	Seed         int64         `koanf:"seed"`
	Verbose      bool          `koanf:"verbose"`
	LogLevel     slog.Level    `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	OutputFormat string        `koanf:"output"`
	Target       *TargetConfig `koanf:"target"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".csvgen/state.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=plain text without color
	DefaultTarget    = "duckdb"
)

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		History:      true,
		LogLevel:     slog.LevelInfo,
		LogFormat:    DefaultLogFormat,
		OutputFormat: DefaultOutput,
		Target:       &TargetConfig{Type: DefaultTarget, Schema: DefaultSchemaForType(DefaultTarget)},
	}
}
