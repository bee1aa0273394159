package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vk/gridc/internal/compiler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourcePath  string
	Module      string // empty: resolve by provenance
	Format      string
	OutputPath  string // empty: write to the App's output writer
	FromPackage bool   // SourcePath is a compiled package to re-render

	LogFormat string
	LogLevel  string
}

// NewConfig applies defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourcePath == "" {
		return nil, errors.New("SourcePath is a required configuration field and cannot be empty")
	}

	if cfg.Format == "" {
		cfg.Format = string(compiler.FormatJSON)
	}
	format, err := compiler.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = string(format)

	if cfg.FromPackage && cfg.Module != "" {
		return nil, errors.New("a module name cannot be combined with a compiled package input")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	cfg.LogLevel = strings.ToLower(level.String())

	if cfg.LogFormat == "" {
		cfg.LogFormat = "auto"
	}
	switch cfg.LogFormat {
	case "auto", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'auto', 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}

// FileConfig is the optional TOML file holding defaults for CLI options.
type FileConfig struct {
	Module    string `toml:"module"`
	Format    string `toml:"format"`
	Output    string `toml:"output"`
	LogLevel  string `toml:"log-level"`
	LogFormat string `toml:"log-format"`
}

// LoadFileConfig decodes a TOML config file. Unknown keys are rejected.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}
