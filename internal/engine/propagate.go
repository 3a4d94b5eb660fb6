package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/vk/wireflow/internal/ctxlog"
	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/observe"
	"github.com/vk/wireflow/internal/registry"
	"golang.org/x/sync/errgroup"
)

// executeAndContinue runs a node and then activates its downstream flow
// according to the behavior's kind. Function and branch continuations are
// fired and forgotten; event continuations are awaited so trigger paths
// report their first failure.
func (e *Engine) executeAndContinue(ctx context.Context, rs *runState, node *graph.Node) error {
	result, err := e.executeNode(ctx, rs, node)
	if err != nil {
		return err
	}

	beh, ok := e.reg.Lookup(node.Behavior)
	if !ok {
		return &NodeError{Node: node.ID, Err: fmt.Errorf("unknown behavior '%s'", node.Behavior)}
	}

	switch beh.Kind {
	case registry.KindFunction:
		for _, port := range beh.OutputPorts() {
			e.firePortDetached(ctx, rs, node, port)
		}
	case registry.KindBooleanBranch:
		for port, active := range boolFlags(result, beh) {
			if active {
				e.firePortDetached(ctx, rs, node, port)
			}
		}
	case registry.KindEvent:
		for _, port := range beh.OutputPorts() {
			if err := e.firePortJoined(ctx, rs, node, port); err != nil {
				return err
			}
		}
	case registry.KindLoop:
		// Loops drive their downstream flow themselves through the Handle.
	}
	return nil
}

// executeNode runs a node exactly once per run. Repeated activations return
// the memoized result or error; activating a node that is mid-execution is a
// no-op returning nil, which keeps cyclic flow edges from deadlocking.
func (e *Engine) executeNode(ctx context.Context, rs *runState, node *graph.Node) (any, error) {
	ns := rs.state(node.ID)
	alreadyDone, memoErr, inFlight := ns.begin()
	if alreadyDone {
		if memoErr != nil {
			return nil, memoErr
		}
		result, _ := ns.value()
		return result, nil
	}
	if inFlight {
		return nil, nil
	}

	beh, ok := e.reg.Lookup(node.Behavior)
	if !ok {
		err := &NodeError{Node: node.ID, Err: fmt.Errorf("unknown behavior '%s'", node.Behavior)}
		ns.finish(nil, err)
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("run_id", rs.id, "node", node.ID, "behavior", node.Behavior)
	logger.Debug("Node starting.")
	e.emit(ctx, observe.Event{
		Type: observe.EventNodeStarted, Level: slog.LevelDebug, RunID: rs.id, Node: node.ID,
		Data: map[string]any{"behavior": node.Behavior},
	})

	result, err := e.invoke(ctx, rs, node, beh)
	if err != nil {
		err = &NodeError{Node: node.ID, Err: err}
		ns.finish(nil, err)
		logger.Error("Node failed.", "error", err)
		e.emit(ctx, observe.Event{
			Type: observe.EventNodeFailed, Level: slog.LevelError, RunID: rs.id, Node: node.ID,
			Data: map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	// A loop behavior may have stashed its own result through the Handle
	// while its body ran; the stash wins over the function return.
	if beh.Kind == registry.KindLoop {
		if stashed, ok := ns.value(); ok {
			ns.finish(stashed, nil)
			result = stashed
		} else {
			ns.finish(result, nil)
		}
	} else {
		ns.finish(result, nil)
	}

	logger.Debug("Node finished.")
	e.emit(ctx, observe.Event{
		Type: observe.EventNodeFinished, Level: slog.LevelDebug, RunID: rs.id, Node: node.ID,
	})
	return result, nil
}

// firePortDetached activates every target of a port without awaiting it.
// Failures down the detached path are recorded on their own nodes and
// logged; the caller never sees them.
func (e *Engine) firePortDetached(ctx context.Context, rs *runState, node *graph.Node, portName string) {
	targets := e.portTargets(ctx, rs, node, portName)
	if len(targets) == 0 {
		return
	}
	e.emit(ctx, observe.Event{
		Type: observe.EventPortFired, Level: slog.LevelDebug, RunID: rs.id, Node: node.ID,
		Data: map[string]any{"port": portName, "targets": len(targets)},
	})
	for _, target := range targets {
		rs.detached.Add(1)
		go func() {
			defer rs.detached.Done()
			if err := e.executeAndContinue(ctx, rs, target); err != nil {
				ctxlog.FromContext(ctx).Error("Detached flow branch failed.",
					"run_id", rs.id, "from", node.ID, "port", portName, "error", err)
			}
		}()
	}
}

// firePortJoined activates every target of a port concurrently and waits for
// all of them, returning the first failure. Sibling targets are not
// cancelled when one fails.
func (e *Engine) firePortJoined(ctx context.Context, rs *runState, node *graph.Node, portName string) error {
	targets := e.portTargets(ctx, rs, node, portName)
	if len(targets) == 0 {
		return nil
	}
	e.emit(ctx, observe.Event{
		Type: observe.EventPortFired, Level: slog.LevelDebug, RunID: rs.id, Node: node.ID,
		Data: map[string]any{"port": portName, "targets": len(targets)},
	})
	var eg errgroup.Group
	for _, target := range targets {
		eg.Go(func() error {
			return e.executeAndContinue(ctx, rs, target)
		})
	}
	return eg.Wait()
}

// portTargets resolves a port's connections to live nodes. A connection to a
// node that is no longer in the graph is skipped with a warning rather than
// failing the run.
func (e *Engine) portTargets(ctx context.Context, rs *runState, node *graph.Node, portName string) []*graph.Node {
	port, ok := node.Port(portName)
	if !ok {
		return nil
	}
	targets := make([]*graph.Node, 0, len(port.Connections))
	for _, conn := range port.Connections {
		target, ok := rs.graph.Node(conn.Node)
		if !ok {
			ctxlog.FromContext(ctx).Warn("Skipping connection to missing node.",
				"run_id", rs.id, "from", node.ID, "port", portName, "to", conn.Node)
			e.emit(ctx, observe.Event{
				Type: observe.EventEdgeSkipped, Level: slog.LevelWarn, RunID: rs.id, Node: node.ID,
				Data: map[string]any{"port": portName, "to": conn.Node},
			})
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// boolFlags reads the boolean port values out of a branch behavior's result.
// Ports absent from the result stay inactive.
func boolFlags(result any, beh *registry.Behavior) map[string]bool {
	flags := make(map[string]bool, len(beh.OutputPorts()))
	for _, port := range beh.OutputPorts() {
		flags[port] = false
	}
	if result == nil {
		return flags
	}
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return flags
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return flags
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Bool {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("wf"); tag != "" && tag != "-" {
			name = strings.Split(tag, ",")[0]
		}
		if _, declared := flags[name]; declared {
			flags[name] = v.Field(i).Bool()
		}
	}
	return flags
}
