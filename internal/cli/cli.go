package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vk/gridc/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
// An empty Message means everything worth printing has been printed.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `Compiles a program file into a package, and prints the resulting JSON.

Usage:
  gridc [options] <path_to_program_file>

Options:
`

// Parse processes command-line arguments into a validated app.Config. Help
// requests and a wrong number of arguments print usage to output and return
// an ExitError with code 1; invalid option values return code 2.
func Parse(args []string, output io.Writer) (*app.Config, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("gridc", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	moduleFlag := flagSet.StringP("module", "m", "", "Name of the program to compile. By default the first program the file declares is used.")
	formatFlag := flagSet.StringP("format", "f", "json", "Output format. Options: 'json', 'yaml', 'mermaid'.")
	outputFlag := flagSet.StringP("output", "o", "", "Write the output to this file instead of standard output.")
	fromPackageFlag := flagSet.Bool("from-package", false, "Treat the path as a compiled package and render it again.")
	var logLevel slog.Level
	LevelVar(flagSet, &logLevel, "log-level", slog.LevelWarn, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'auto', 'text' or 'json'.")
	configFlag := flagSet.String("config", "", "Path to a TOML file with default option values.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ExitError{Code: 1}
		}
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "args", flagSet.Args())

	if flagSet.NArg() != 1 {
		slog.Debug("Expected exactly one program path, printing usage and exiting.", "count", flagSet.NArg())
		flagSet.Usage()
		return nil, &ExitError{Code: 1}
	}

	cfg := app.Config{
		SourcePath:  flagSet.Arg(0),
		Module:      *moduleFlag,
		Format:      strings.ToLower(*formatFlag),
		OutputPath:  *outputFlag,
		FromPackage: *fromPackageFlag,
		LogFormat:   strings.ToLower(*logFormatFlag),
		LogLevel:    strings.ToLower(logLevel.String()),
	}

	if *configFlag != "" {
		fc, err := app.LoadFileConfig(*configFlag)
		if err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		applyFileConfig(flagSet, &cfg, fc)
		slog.Debug("Config file applied.", "path", *configFlag)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, nil
}

// applyFileConfig fills in options from the config file that were not set
// explicitly on the command line.
func applyFileConfig(flagSet *pflag.FlagSet, cfg *app.Config, fc *app.FileConfig) {
	set := func(flag string, dst *string, val string) {
		if val != "" && !flagSet.Changed(flag) {
			*dst = val
		}
	}
	set("module", &cfg.Module, fc.Module)
	set("format", &cfg.Format, strings.ToLower(fc.Format))
	set("output", &cfg.OutputPath, fc.Output)
	set("log-level", &cfg.LogLevel, strings.ToLower(fc.LogLevel))
	set("log-format", &cfg.LogFormat, strings.ToLower(fc.LogFormat))
}
