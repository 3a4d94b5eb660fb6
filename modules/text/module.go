// Package text provides string leaf behaviors.
package text

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ConcatInput defines the arguments for 'text.concat'.
type ConcatInput struct {
	Parts     []any  `wf:"parts"`
	Separator string `wf:"separator,field"`
}

// ConcatResult is the result of 'text.concat'.
type ConcatResult struct {
	Text string `json:"text"`
}

// Concat is the handler for the 'text.concat' behavior.
func Concat(ctx context.Context, input *ConcatInput) (*ConcatResult, error) {
	parts := make([]string, len(input.Parts))
	for i, p := range input.Parts {
		parts[i] = fmt.Sprint(p)
	}
	return &ConcatResult{Text: strings.Join(parts, input.Separator)}, nil
}

// UpperInput defines the arguments for 'text.upper'.
type UpperInput struct {
	Value string `wf:"value"`
}

// UpperResult is the result of 'text.upper'.
type UpperResult struct {
	Text string `json:"text"`
}

// Upper is the handler for the 'text.upper' behavior.
func Upper(ctx context.Context, input *UpperInput) (*UpperResult, error) {
	return &UpperResult{Text: strings.ToUpper(input.Value)}, nil
}

// FormatInput defines the arguments for 'text.format'. Template is a
// fmt-style format string applied to the args in order.
type FormatInput struct {
	Template string `wf:"template,field"`
	Args     []any  `wf:"args"`
}

// FormatResult is the result of 'text.format'.
type FormatResult struct {
	Text string `json:"text"`
}

// Format is the handler for the 'text.format' behavior.
func Format(ctx context.Context, input *FormatInput) (*FormatResult, error) {
	return &FormatResult{Text: fmt.Sprintf(input.Template, input.Args...)}, nil
}

// Register registers the text behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("text.concat", &registry.Behavior{
		Category:  "text",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(ConcatInput) },
		InputType: reflect.TypeOf(ConcatInput{}),
		Fn:        Concat,
	})
	r.RegisterBehavior("text.upper", &registry.Behavior{
		Category:  "text",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(UpperInput) },
		InputType: reflect.TypeOf(UpperInput{}),
		Fn:        Upper,
	})
	r.RegisterBehavior("text.format", &registry.Behavior{
		Category:  "text",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(FormatInput) },
		InputType: reflect.TypeOf(FormatInput{}),
		Fn:        Format,
	})
}
