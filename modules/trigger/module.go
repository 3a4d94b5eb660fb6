// Package trigger provides the event behaviors that start workflow runs.
package trigger

import (
	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the trigger behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	// The manual trigger has no handler of its own; firing the node just
	// activates its action port. The synthesized start node uses it.
	r.RegisterBehavior("trigger.manual", &registry.Behavior{
		Category: "trigger",
		Kind:     registry.KindEvent,
	})
}
