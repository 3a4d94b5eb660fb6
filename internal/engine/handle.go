package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/observe"
	"github.com/vk/wireflow/internal/registry"
)

// handle implements registry.Handle for one node invocation.
type handle struct {
	engine *Engine
	rs     *runState
	node   *graph.Node
}

func (e *Engine) handleFor(rs *runState, node *graph.Node) *handle {
	return &handle{engine: e, rs: rs, node: node}
}

// RunPort executes every target of the named port and waits for the whole
// sub-flow to finish, returning the first failure. Loop bodies are awaited
// so each iteration observes the previous one's results.
func (h *handle) RunPort(ctx context.Context, port string) error {
	return h.engine.firePortJoined(ctx, h.rs, h.node, port)
}

// ClearDownstream resets the memoized state of every node reachable from the
// named port. The owning node itself is never reset, so a loop's own stashed
// result survives clearing its body.
func (h *handle) ClearDownstream(ctx context.Context, port string) {
	ids := h.rs.graph.Reachable(h.node.ID, port)
	for _, id := range ids {
		h.rs.state(id).reset()
	}
	h.engine.emit(ctx, observe.Event{
		Type: observe.EventDownstreamCleared, Level: slog.LevelDebug,
		RunID: h.rs.id, Node: h.node.ID,
		Data: map[string]any{"port": port, "cleared": len(ids)},
	})
}

// Result returns the node's stashed result, or nil when none has been set.
func (h *handle) Result() any {
	v, _ := h.rs.state(h.node.ID).value()
	return v
}

// SetResult stashes a result on the node mid-execution. Downstream data
// edges reading from this node observe the stashed value immediately.
func (h *handle) SetResult(v any) {
	h.rs.state(h.node.ID).setResult(v)
}

// Input resolves one declared parameter of the node against the run's
// current state. Loops use this to re-read a feedback binding after a body
// pass has refreshed the bound node.
func (h *handle) Input(ctx context.Context, param string) (any, error) {
	beh, ok := h.engine.reg.Lookup(h.node.Behavior)
	if !ok {
		return nil, &NodeError{Node: h.node.ID, Err: fmt.Errorf("unknown behavior '%s'", h.node.Behavior)}
	}
	p, ok := beh.Param(param)
	if !ok {
		return nil, &NodeError{Node: h.node.ID, Err: fmt.Errorf("behavior '%s' has no parameter '%s'", h.node.Behavior, param)}
	}
	return h.rs.resolveInput(h.node, p), nil
}

// SetOutput writes a value into the run's shared output map.
func (h *handle) SetOutput(name string, v any) {
	h.rs.setOutput(name, v)
}

var _ registry.Handle = (*handle)(nil)
