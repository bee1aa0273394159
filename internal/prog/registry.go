package prog

import (
	"fmt"
	"sync"
)

// Provenance records which executed namespace and which source file
// declared a program unit. Either field may be empty.
type Provenance struct {
	Origin   any
	Filename string
}

// Registry holds every program unit declared in the process, in
// declaration order.
type Registry struct {
	mu    sync.Mutex
	units []*Unit
}

// Default is the process-wide registry used by the gridc binary.
var Default = NewRegistry()

// NewRegistry creates an empty registry. Tests use it to avoid sharing
// Default with each other.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register records a declared program unit together with its provenance.
// A unit can only be registered once.
func (r *Registry) Register(u *Unit, p Provenance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.registered {
		panic(fmt.Sprintf("program unit '%s' already registered", u.Name))
	}
	u.provenance = p
	u.registered = true
	r.units = append(r.units, u)
}

// Units returns a snapshot of all registered units in registration order.
func (r *Registry) Units() []*Unit {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}
