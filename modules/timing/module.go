// Package timing provides delay and clock leaf behaviors.
package timing

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/vk/wireflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// WaitInput defines the arguments for 'timing.wait'.
type WaitInput struct {
	Duration string `wf:"duration,field"`
}

// WaitResult is the result of 'timing.wait'.
type WaitResult struct {
	Waited string `json:"waited"`
}

// Wait is the handler for the 'timing.wait' behavior. It sleeps for the
// given duration, honoring context cancellation.
func Wait(ctx context.Context, input *WaitInput) (*WaitResult, error) {
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration '%s': %w", input.Duration, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("duration must not be negative, got %s", input.Duration)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return &WaitResult{Waited: d.String()}, nil
}

// NowResult is the result of 'timing.now'.
type NowResult struct {
	Unix int64  `json:"unix"`
	RFC  string `json:"rfc3339"`
}

// Now is the handler for the 'timing.now' behavior. Reading the clock
// through the invocation keeps runs with a substituted clock reproducible.
func Now(ctx context.Context, inv *registry.Invocation) (*NowResult, error) {
	t := inv.Clock()
	return &NowResult{Unix: t.Unix(), RFC: t.Format(time.RFC3339)}, nil
}

// Register registers the timing behaviors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBehavior("timing.wait", &registry.Behavior{
		Category:  "timing",
		Kind:      registry.KindFunction,
		NewInput:  func() any { return new(WaitInput) },
		InputType: reflect.TypeOf(WaitInput{}),
		Fn:        Wait,
	})
	r.RegisterBehavior("timing.now", &registry.Behavior{
		Category: "timing",
		Kind:     registry.KindFunction,
		Fn:       Now,
	})
}
