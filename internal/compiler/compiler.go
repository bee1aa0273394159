// Package compiler asks a resolved program unit to compile itself and
// renders the resulting package as text.
package compiler

import (
	"context"

	"github.com/vk/gridc/internal/ctxlog"
	"github.com/vk/gridc/internal/prog"
)

// Compile compiles u. Errors from the compiler library are returned as is.
func Compile(ctx context.Context, u *prog.Unit) (*prog.Package, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling program.", "name", u.Name, "functions", len(u.Functions))

	pkg, err := u.Compile()
	if err != nil {
		return nil, err
	}

	logger.Debug("Program compiled.", "name", u.Name, "modules", len(pkg.Modules))
	return pkg, nil
}
