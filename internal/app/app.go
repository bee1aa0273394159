package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/gridc/internal/loader"
	"github.com/vk/gridc/internal/prog"
	"github.com/vk/gridc/internal/resolver"
)

// MinimumVersion is the oldest compiler library release gridc supports.
const MinimumVersion = "0.14.0"

// Loader executes a source file into a namespace.
type Loader interface {
	Load(ctx context.Context, path string) (*loader.Unit, error)
}

// Registry is the program registry as seen by the pipeline: the loader
// registers into it and the resolver reads from it.
type Registry interface {
	loader.Registrar
	resolver.Registry
}

// App encapsulates the pipeline's dependencies and configuration.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  Registry
	loader    Loader
	installed string
}

// Option customizes an App. Tests use options to isolate the registry and
// to fake collaborators.
type Option func(*App)

// WithRegistry replaces the process-wide prog.Default registry.
func WithRegistry(reg Registry) Option {
	return func(a *App) { a.registry = reg }
}

// WithLoader replaces the HCL file loader.
func WithLoader(l Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithInstalledVersion overrides the compiler library version reported to
// the version check.
func WithInstalledVersion(v string) Option {
	return func(a *App) { a.installed = v }
}

// NewApp is the constructor for the application. Compiled output is written
// to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:      outW,
		logger:    newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config:    cfg,
		registry:  prog.Default,
		installed: prog.Version,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loader == nil {
		a.loader = loader.New(a.registry)
	}
	a.logger.Debug("App configured.", "installed_version", a.installed, "minimum_version", MinimumVersion)
	return a
}
