// Package flow provides the branch and loop behaviors built on the
// execution handle.
package flow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/wireflow/internal/coerce"
	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// defaultMaxIterations caps 'flow.while' when the node does not set its own
// limit, so a condition that never flips cannot spin a run forever.
const defaultMaxIterations = 10000

// IfInput defines the arguments for 'flow.if'.
type IfInput struct {
	Condition bool `wf:"condition"`
}

// IfResult routes flow out of 'flow.if'; exactly one of its ports is active.
type IfResult struct {
	True  bool `wf:"true" json:"true"`
	False bool `wf:"false" json:"false"`
}

// If is the handler for the 'flow.if' behavior.
func If(ctx context.Context, input *IfInput) (*IfResult, error) {
	return &IfResult{True: input.Condition, False: !input.Condition}, nil
}

// RepeatInput defines the arguments for 'flow.repeat'.
type RepeatInput struct {
	Count int `wf:"count"`
}

// RepeatResult is the result of 'flow.repeat'.
type RepeatResult struct {
	Iterations int `json:"iterations"`
}

// Repeat is the handler for the 'flow.repeat' behavior. It runs the body
// subgraph Count times, clearing it before each pass, then fires done once.
// A negative count is a validation error raised before any iteration.
func Repeat(ctx context.Context, h registry.Handle, input *RepeatInput) (*RepeatResult, error) {
	if input.Count < 0 {
		return nil, fmt.Errorf("repeat count must not be negative, got %d", input.Count)
	}
	for i := 0; i < input.Count; i++ {
		h.SetResult(map[string]any{"index": i})
		h.ClearDownstream(ctx, "body")
		if err := h.RunPort(ctx, "body"); err != nil {
			return nil, err
		}
	}
	h.SetResult(map[string]any{"iterations": input.Count})
	if err := h.RunPort(ctx, "done"); err != nil {
		return nil, err
	}
	return &RepeatResult{Iterations: input.Count}, nil
}

// WhileInput defines the arguments for 'flow.while'. Condition is re-read
// through the handle after every pass, so a body node feeding it back drives
// termination.
type WhileInput struct {
	Condition     bool `wf:"condition"`
	MaxIterations int  `wf:"max_iterations,field"`
}

// WhileResult is the result of 'flow.while'.
type WhileResult struct {
	Iterations int `json:"iterations"`
}

// While is the handler for the 'flow.while' behavior. The initial condition
// comes from the node's resolved input, so a bound condition source must sit
// on the flow path ahead of the loop.
func While(ctx context.Context, h registry.Handle, input *WhileInput) (*WhileResult, error) {
	limit := input.MaxIterations
	if limit <= 0 {
		limit = defaultMaxIterations
	}
	cond := input.Condition
	iterations := 0
	for cond {
		if iterations >= limit {
			return nil, fmt.Errorf("exceeded maximum of %d iterations", limit)
		}
		h.SetResult(map[string]any{"index": iterations})
		h.ClearDownstream(ctx, "body")
		if err := h.RunPort(ctx, "body"); err != nil {
			return nil, err
		}
		iterations++

		raw, err := h.Input(ctx, "condition")
		if err != nil {
			return nil, err
		}
		cond = coerce.Truthy(raw)
	}
	h.SetResult(map[string]any{"iterations": iterations})
	if err := h.RunPort(ctx, "done"); err != nil {
		return nil, err
	}
	return &WhileResult{Iterations: iterations}, nil
}

// ForEachInput defines the arguments for 'flow.foreach'.
type ForEachInput struct {
	Items []any `wf:"items"`
}

// ForEachResult is the result of 'flow.foreach'.
type ForEachResult struct {
	Count int `json:"count"`
}

// ForEach is the handler for the 'flow.foreach' behavior. During iteration i
// the node's own result exposes the current item and index, so body nodes
// bind to '<loop>.item' and '<loop>.index'.
func ForEach(ctx context.Context, h registry.Handle, input *ForEachInput) (*ForEachResult, error) {
	for i, item := range input.Items {
		h.SetResult(map[string]any{"item": item, "index": i})
		h.ClearDownstream(ctx, "body")
		if err := h.RunPort(ctx, "body"); err != nil {
			return nil, err
		}
	}
	h.SetResult(map[string]any{"count": len(input.Items)})
	if err := h.RunPort(ctx, "done"); err != nil {
		return nil, err
	}
	return &ForEachResult{Count: len(input.Items)}, nil
}

// MapInput defines the arguments for 'flow.map'. Value is a feedback binding
// from a body node; it is re-read after each pass to collect that
// iteration's result.
type MapInput struct {
	Items []any `wf:"items"`
	Value any   `wf:"value"`
}

// MapResult is the result of 'flow.map'.
type MapResult struct {
	Results []any `json:"results"`
	Count   int   `json:"count"`
}

// Map is the handler for the 'flow.map' behavior.
func Map(ctx context.Context, h registry.Handle, input *MapInput) (*MapResult, error) {
	results := make([]any, 0, len(input.Items))
	for i, item := range input.Items {
		h.SetResult(map[string]any{"item": item, "index": i})
		h.ClearDownstream(ctx, "body")
		if err := h.RunPort(ctx, "body"); err != nil {
			return nil, err
		}
		collected, err := h.Input(ctx, "value")
		if err != nil {
			return nil, err
		}
		results = append(results, collected)
	}
	h.SetResult(map[string]any{"results": results, "count": len(results)})
	if err := h.RunPort(ctx, "done"); err != nil {
		return nil, err
	}
	return &MapResult{Results: results, Count: len(results)}, nil
}

// Register registers the flow behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("flow.if", &registry.Behavior{
		Category:  "flow",
		Kind:      registry.KindBooleanBranch,
		NewInput:  func() any { return new(IfInput) },
		InputType: reflect.TypeOf(IfInput{}),
		Fn:        If,
	})
	r.RegisterBehavior("flow.repeat", &registry.Behavior{
		Category:  "flow",
		Kind:      registry.KindLoop,
		NewInput:  func() any { return new(RepeatInput) },
		InputType: reflect.TypeOf(RepeatInput{}),
		Ports:     []string{"body", "done"},
		Fn:        Repeat,
	})
	r.RegisterBehavior("flow.while", &registry.Behavior{
		Category:  "flow",
		Kind:      registry.KindLoop,
		NewInput:  func() any { return new(WhileInput) },
		InputType: reflect.TypeOf(WhileInput{}),
		Ports:     []string{"body", "done"},
		Fn:        While,
	})
	r.RegisterBehavior("flow.foreach", &registry.Behavior{
		Category:  "flow",
		Kind:      registry.KindLoop,
		NewInput:  func() any { return new(ForEachInput) },
		InputType: reflect.TypeOf(ForEachInput{}),
		Ports:     []string{"body", "done"},
		Fn:        ForEach,
	})
	r.RegisterBehavior("flow.map", &registry.Behavior{
		Category:  "flow",
		Kind:      registry.KindLoop,
		NewInput:  func() any { return new(MapInput) },
		InputType: reflect.TypeOf(MapInput{}),
		Ports:     []string{"body", "done"},
		Fn:        Map,
	})
}
