// Package testutil provides shared helpers for engine and integration tests.
package testutil

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/wireflow/internal/engine"
	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/hclgraph"
	"github.com/vk/wireflow/internal/observe"
	"github.com/vk/wireflow/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// RecordingObserver captures every emitted event for later assertions.
type RecordingObserver struct {
	mu     sync.Mutex
	events []observe.Event
}

// OnEvent implements observe.Observer.
func (o *RecordingObserver) OnEvent(ctx context.Context, event observe.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Events returns a copy of the captured events.
func (o *RecordingObserver) Events() []observe.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observe.Event(nil), o.events...)
}

// CountByType tallies captured events of one type.
func (o *RecordingObserver) CountByType(t observe.EventType) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// NewEngine builds a registry from the given modules and wraps it in an
// engine with the provided options.
func NewEngine(t *testing.T, modules []registry.Module, opts ...engine.Option) (*engine.Engine, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	return engine.New(reg, opts...), reg
}

// DecodeWorkflow parses a single-workflow HCL definition.
func DecodeWorkflow(t *testing.T, src string) *graph.Graph {
	t.Helper()
	graphs, err := hclgraph.Decode(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	return graphs[0]
}
