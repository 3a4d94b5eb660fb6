// Package envread provides behaviors reading the run's environment set.
package envread

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ReadInput defines the arguments for 'env.read'.
type ReadInput struct {
	Name    string `wf:"name,field"`
	Default string `wf:"default,field"`
}

// ReadResult is the result of 'env.read'.
type ReadResult struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// Read is the handler for the 'env.read' behavior. It reads from the
// run-scoped environment set, never the process environment directly.
func Read(ctx context.Context, inv *registry.Invocation, input *ReadInput) (*ReadResult, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if v, ok := inv.Env[input.Name]; ok {
		return &ReadResult{Value: v, Found: true}, nil
	}
	return &ReadResult{Value: input.Default, Found: false}, nil
}

// AllResult is the result of 'env.all'.
type AllResult struct {
	All map[string]string `json:"all"`
}

// All is the handler for the 'env.all' behavior.
func All(ctx context.Context, inv *registry.Invocation) (*AllResult, error) {
	all := make(map[string]string, len(inv.Env))
	for k, v := range inv.Env {
		all[k] = v
	}
	return &AllResult{All: all}, nil
}

// Register registers the environment behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("env.read", &registry.Behavior{
		Category:  "env",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(ReadInput) },
		InputType: reflect.TypeOf(ReadInput{}),
		Fn:        Read,
	})
	r.RegisterBehavior("env.all", &registry.Behavior{
		Category: "env",
		Kind:     registry.KindFunction,
		Fn:       All,
	})
}
