package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all behavior modules must implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered behaviors for a single application
// instance. It is populated at startup and read-only afterwards.
type Registry struct {
	behaviors map[string]*Behavior
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		behaviors: make(map[string]*Behavior),
	}
}

// RegisterBehavior registers a behavior under its stable identity string.
// A duplicate name or a metadata/signature mismatch is a programmer error
// and panics, mirroring how modules are wired at process start.
func (r *Registry) RegisterBehavior(name string, b *Behavior) {
	if _, exists := r.behaviors[name]; exists {
		panic(fmt.Sprintf("behavior with name '%s' already registered", name))
	}
	if err := b.finalize(name); err != nil {
		panic(fmt.Sprintf("behavior '%s': %v", name, err))
	}
	slog.Debug("Registering behavior.", "name", name, "kind", b.Kind.String(), "category", b.Category)
	r.behaviors[name] = b
}

// Lookup returns the behavior registered under the given identity string.
func (r *Registry) Lookup(name string) (*Behavior, bool) {
	b, ok := r.behaviors[name]
	return b, ok
}

// Names returns the sorted identity strings of all registered behaviors.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered behaviors.
func (r *Registry) Len() int { return len(r.behaviors) }
