// Package workflow provides the composition behavior that runs one workflow
// from inside another.
package workflow

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// RunInput defines the arguments for 'workflow.run'. Params becomes the
// sub-run's input parameter set; the caller's own parameters are not
// inherited.
type RunInput struct {
	Workflow string         `wf:"workflow,field"`
	Params   map[string]any `wf:"params"`
}

// Run is the handler for the 'workflow.run' behavior. It resolves the
// referenced definition from the store, runs it in a fresh run context
// inheriting only the caller's environment, and returns the sub-run's
// output object as its own result. A missing or empty identifier is a
// validation error raised before anything executes.
func Run(ctx context.Context, inv *registry.Invocation, input *RunInput) (map[string]any, error) {
	id := strings.TrimSpace(input.Workflow)
	if id == "" {
		return nil, fmt.Errorf("workflow identifier must not be empty")
	}
	if inv.Store == nil {
		return nil, fmt.Errorf("no workflow store configured")
	}

	sub, err := inv.Store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving workflow '%s': %w", id, err)
	}
	outputs, err := inv.Runner.RunGraph(ctx, sub, input.Params, inv.Env)
	if err != nil {
		return nil, fmt.Errorf("running workflow '%s': %w", id, err)
	}
	return outputs, nil
}

// ParamInput defines the arguments for 'workflow.param'.
type ParamInput struct {
	Name    string `wf:"name,field"`
	Default any    `wf:"default,field"`
}

// ParamResult is the result of 'workflow.param'.
type ParamResult struct {
	Value any  `json:"value"`
	Found bool `json:"found"`
}

// Param is the handler for the 'workflow.param' behavior. It reads one of
// the run's input parameters, falling back to the declared default.
func Param(ctx context.Context, inv *registry.Invocation, input *ParamInput) (*ParamResult, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if v, ok := inv.Params[input.Name]; ok {
		return &ParamResult{Value: v, Found: true}, nil
	}
	return &ParamResult{Value: input.Default, Found: false}, nil
}

// Register registers the composition behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("workflow.run", &registry.Behavior{
		Category:  "workflow",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(RunInput) },
		InputType: reflect.TypeOf(RunInput{}),
		Fn:        Run,
	})
	r.RegisterBehavior("workflow.param", &registry.Behavior{
		Category:  "workflow",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(ParamInput) },
		InputType: reflect.TypeOf(ParamInput{}),
		Fn:        Param,
	})
}
