package resolver

import (
	"context"

	"github.com/vk/gridc/internal/ctxlog"
	"github.com/vk/gridc/internal/prog"
	"github.com/zclconf/go-cty/cty"
)

// Registry enumerates every registered program unit in registration order.
type Registry interface {
	Units() []*prog.Unit
}

// Namespace is an executed source file.
type Namespace interface {
	Lookup(name string) (cty.Value, bool)
	SourcePath() string
}

// Resolve returns the program unit to compile. A non-empty name selects the
// unit bound to that name in ns; otherwise the first registered unit that
// was declared by ns, or by ns's source file, is returned.
func Resolve(ctx context.Context, reg Registry, ns Namespace, name string) (*prog.Unit, error) {
	logger := ctxlog.FromContext(ctx)

	if name != "" {
		val, ok := ns.Lookup(name)
		if !ok {
			return nil, &MissingModuleError{Name: name, SourcePath: ns.SourcePath()}
		}
		u, ok := prog.FromValue(val)
		if !ok {
			return nil, &NotAProgramUnitError{Name: name, SourcePath: ns.SourcePath()}
		}
		logger.Debug("Resolved program by name.", "name", name)
		return u, nil
	}

	units := reg.Units()
	for i, u := range units {
		if matches(u.Provenance(), ns) {
			logger.Debug("Resolved program by provenance.", "name", u.Name, "position", i, "registered", len(units))
			return u, nil
		}
	}
	return nil, &MissingModuleError{SourcePath: ns.SourcePath()}
}

func matches(p prog.Provenance, ns Namespace) bool {
	if p.Origin != nil && p.Origin == any(ns) {
		return true
	}
	return p.Filename != "" && p.Filename == ns.SourcePath()
}
