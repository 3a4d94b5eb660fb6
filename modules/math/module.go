// Package math provides arithmetic leaf behaviors.
package math

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// PairInput is the two-operand input shared by the arithmetic behaviors.
type PairInput struct {
	A float64 `wf:"a"`
	B float64 `wf:"b"`
}

// AddResult is the result of 'math.add'.
type AddResult struct {
	Sum float64 `json:"sum"`
}

// Add is the handler for the 'math.add' behavior.
func Add(ctx context.Context, input *PairInput) (*AddResult, error) {
	return &AddResult{Sum: input.A + input.B}, nil
}

// SubtractResult is the result of 'math.subtract'.
type SubtractResult struct {
	Difference float64 `json:"difference"`
}

// Subtract is the handler for the 'math.subtract' behavior.
func Subtract(ctx context.Context, input *PairInput) (*SubtractResult, error) {
	return &SubtractResult{Difference: input.A - input.B}, nil
}

// MultiplyResult is the result of 'math.multiply'.
type MultiplyResult struct {
	Product float64 `json:"product"`
}

// Multiply is the handler for the 'math.multiply' behavior.
func Multiply(ctx context.Context, input *PairInput) (*MultiplyResult, error) {
	return &MultiplyResult{Product: input.A * input.B}, nil
}

// DivideResult is the result of 'math.divide'.
type DivideResult struct {
	Quotient float64 `json:"quotient"`
}

// Divide is the handler for the 'math.divide' behavior. Division by zero is
// a validation error raised before any result is produced.
func Divide(ctx context.Context, input *PairInput) (*DivideResult, error) {
	if input.B == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return &DivideResult{Quotient: input.A / input.B}, nil
}

// RandomInput defines the range for 'math.random'.
type RandomInput struct {
	Min float64 `wf:"min"`
	Max float64 `wf:"max"`
}

// RandomResult is the result of 'math.random'.
type RandomResult struct {
	Value float64 `json:"value"`
}

// Random is the handler for the 'math.random' behavior. It draws from the
// run-scoped random source so runs with a fixed seed are reproducible.
func Random(ctx context.Context, inv *registry.Invocation, input *RandomInput) (*RandomResult, error) {
	if input.Max < input.Min {
		return nil, fmt.Errorf("max %v is below min %v", input.Max, input.Min)
	}
	span := input.Max - input.Min
	return &RandomResult{Value: input.Min + inv.Rand.Float64()*span}, nil
}

// Register registers the arithmetic behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	pair := func() any { return new(PairInput) }
	pairType := reflect.TypeOf(PairInput{})

	r.RegisterBehavior("math.add", &registry.Behavior{
		Category:  "math",
		Kind:      registry.KindFunction,
		NewInput:  pair,
		InputType: pairType,
		Fn:        Add,
	})
	r.RegisterBehavior("math.subtract", &registry.Behavior{
		Category:  "math",
		Kind:      registry.KindFunction,
		NewInput:  pair,
		InputType: pairType,
		Fn:        Subtract,
	})
	r.RegisterBehavior("math.multiply", &registry.Behavior{
		Category:  "math",
		Kind:      registry.KindFunction,
		NewInput:  pair,
		InputType: pairType,
		Fn:        Multiply,
	})
	r.RegisterBehavior("math.divide", &registry.Behavior{
		Category:  "math",
		Kind:      registry.KindFunction,
		NewInput:  pair,
		InputType: pairType,
		Fn:        Divide,
	})
	r.RegisterBehavior("math.random", &registry.Behavior{
		Category:  "math",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(RandomInput) },
		InputType: reflect.TypeOf(RandomInput{}),
		Fn:        Random,
	})
}
