// Package observe provides the event stream callers use to follow a run's
// progress: run and node lifecycle transitions, port activations, and
// downstream clears. This status feed is the only surface an external UI
// layer consumes; the engine itself never depends on who is listening.
package observe

import (
	"context"
	"log/slog"
	"time"
)

// EventType identifies the kind of event, namespaced by subsystem
// (e.g., "run.started", "node.failed", "port.fired").
type EventType string

const (
	EventRunStarted  EventType = "run.started"
	EventRunFinished EventType = "run.finished"

	EventNodeStarted  EventType = "node.started"
	EventNodeFinished EventType = "node.finished"
	EventNodeFailed   EventType = "node.failed"

	EventPortFired         EventType = "port.fired"
	EventEdgeSkipped       EventType = "edge.skipped"
	EventDownstreamCleared EventType = "downstream.cleared"
)

// Event is one observation emitted during a run.
type Event struct {
	Type      EventType
	Level     slog.Level
	Timestamp time.Time
	// RunID identifies the run the event belongs to.
	RunID string
	// Node is the graph node concerned, when applicable.
	Node string
	// Data carries event-specific attributes.
	Data map[string]any
}

// Observer receives execution events. Implementations must be safe for
// concurrent use; the engine emits from multiple goroutines.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
