// Package printer provides the value-printing behavior.
package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/vk/wireflow/internal/ctxlog"
	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for 'print.value'.
type Input struct {
	Value any    `wf:"value"`
	Label string `wf:"label,field"`
}

// Print is the handler for the 'print.value' behavior.
func Print(ctx context.Context, input *Input) error {
	rendered, err := json.MarshalIndent(input.Value, "", "  ")
	if err != nil {
		rendered = []byte(fmt.Sprint(input.Value))
	}

	ctxlog.FromContext(ctx).Info("Printing value.", "label", input.Label)
	if input.Label != "" {
		fmt.Printf("%s: %s\n", input.Label, rendered)
	} else {
		fmt.Printf("%s\n", rendered)
	}
	return nil
}

// Register registers the printing behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("print.value", &registry.Behavior{
		Category:  "print",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		Fn:        Print,
	})
}
