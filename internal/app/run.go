package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/gridc/internal/compiler"
	"github.com/vk/gridc/internal/ctxlog"
	"github.com/vk/gridc/internal/loader"
	"github.com/vk/gridc/internal/prog"
	"github.com/vk/gridc/internal/resolver"
	"github.com/vk/gridc/internal/version"
)

// Run executes the pipeline once. Output is written only after the package
// has been rendered successfully; on failure nothing is written and the
// failing stage's error is returned without wrapping.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "source", a.config.SourcePath, "module", a.config.Module, "format", a.config.Format)

	if err := version.Check(a.installed, MinimumVersion); err != nil {
		a.logger.Debug("Compiler library version rejected.", "error", err)
		return err
	}

	var (
		text string
		err  error
	)
	if a.config.FromPackage {
		text, err = a.rerender(ctx)
	} else {
		text, err = a.compile(ctx)
	}
	if err != nil {
		return err
	}

	if err := a.emit(text); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// compile loads the source file, resolves its program and renders it.
func (a *App) compile(ctx context.Context) (string, error) {
	unit, err := a.loader.Load(ctx, a.config.SourcePath)
	if err != nil {
		a.logger.Debug("Source file failed to load.", "path", a.config.SourcePath, "error", err)
		return "", err
	}
	a.logger.Info("Source file loaded.", "path", unit.SourcePath(), "unit", unit.Name())

	if err := ctx.Err(); err != nil {
		return "", err
	}
	u, err := resolver.Resolve(ctx, a.registry, unit, a.config.Module)
	if err != nil {
		a.logger.Debug("Entry point resolution failed.", "error", err)
		return "", err
	}
	a.logger.Info("Program resolved.", "name", u.Name)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	pkg, err := compiler.Compile(ctx, u)
	if err != nil {
		a.logger.Debug("Compilation failed.", "name", u.Name, "error", err)
		return "", err
	}

	return compiler.Render(pkg, compiler.Format(a.config.Format))
}

// rerender reads a package compiled earlier and renders it again.
func (a *App) rerender(ctx context.Context) (string, error) {
	data, err := os.ReadFile(a.config.SourcePath)
	if err != nil {
		return "", &loader.InvalidModulePathError{Path: a.config.SourcePath, Err: err}
	}

	pkg, err := prog.ParsePackage(data)
	if err != nil {
		return "", err
	}
	if err := version.Check(pkg.Compiler, MinimumVersion); err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Info("Compiled package loaded.", "path", a.config.SourcePath, "compiler", pkg.Compiler)

	return compiler.Render(pkg, compiler.Format(a.config.Format))
}

func (a *App) emit(text string) error {
	if a.config.OutputPath == "" {
		_, err := fmt.Fprintln(a.outW, text)
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("Package written.", "path", a.config.OutputPath)
	return nil
}
