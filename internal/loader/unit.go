package loader

import (
	"github.com/zclconf/go-cty/cty"
)

// Unit is an executed source file: the names its top-level items bound,
// in the order they were bound. Every load produces a new Unit.
type Unit struct {
	name   string
	path   string
	values map[string]cty.Value
	order  []string
}

func newUnit(name, path string) *Unit {
	return &Unit{
		name:   name,
		path:   path,
		values: make(map[string]cty.Value),
	}
}

// Name is the unique name given to this load.
func (u *Unit) Name() string { return u.name }

// SourcePath is the absolute path of the executed file.
func (u *Unit) SourcePath() string { return u.path }

// Lookup returns the value bound to name.
func (u *Unit) Lookup(name string) (cty.Value, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Names lists bound names in first-binding order.
func (u *Unit) Names() []string {
	out := make([]string, len(u.order))
	copy(out, u.order)
	return out
}

// bind sets name, replacing any earlier binding.
func (u *Unit) bind(name string, v cty.Value) {
	if _, exists := u.values[name]; !exists {
		u.order = append(u.order, name)
	}
	u.values[name] = v
}

// object exposes the namespace to an importing file.
func (u *Unit) object() cty.Value {
	if len(u.values) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(u.values))
	for k, v := range u.values {
		vals[k] = v
	}
	return cty.ObjectVal(vals)
}
