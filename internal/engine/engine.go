package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/wireflow/internal/ctxlog"
	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/observe"
	"github.com/vk/wireflow/internal/registry"
	"github.com/vk/wireflow/internal/store"
	"golang.org/x/sync/errgroup"
)

// NodeError wraps a failure with the id of the node it occurred on. It
// propagates up the awaited call chain of whichever activity invoked the
// node.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string { return fmt.Sprintf("node '%s': %v", e.Node, e.Err) }
func (e *NodeError) Unwrap() error { return e.Err }

// Engine drives graph evaluation against a behavior registry. An Engine is
// stateless between runs and safe for concurrent use.
type Engine struct {
	reg        *registry.Registry
	obs        observe.Observer
	store      store.Store
	httpClient *http.Client
	clock      func() time.Time
	randSeed   func() uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the observer receiving run/node lifecycle events.
func WithObserver(obs observe.Observer) Option {
	return func(e *Engine) { e.obs = obs }
}

// WithStore sets the workflow store available to composition behaviors.
func WithStore(st store.Store) Option {
	return func(e *Engine) { e.store = st }
}

// WithHTTPClient sets the HTTP client injected into behavior invocations.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.httpClient = c }
}

// WithClock sets the clock injected into behavior invocations.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRandSeed fixes the seed of each run's random source, for tests.
func WithRandSeed(seed uint64) Option {
	return func(e *Engine) { e.randSeed = func() uint64 { return seed } }
}

// New creates an Engine bound to a registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:        reg,
		obs:        observe.NoopObserver{},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      time.Now,
		randSeed:   func() uint64 { return uint64(time.Now().UnixNano()) },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one run.
type Result struct {
	// RunID identifies the run.
	RunID string
	// Outputs is the structured value keyed by declared workflow-output
	// names, merged with anything behaviors wrote into the shared output
	// map.
	Outputs map[string]any
	// Nodes is the final per-node status snapshot.
	Nodes map[string]NodeStatus
}

// Run executes the graph: it validates the definition against the registry,
// resets all run state, fires every event-classified trigger node
// concurrently, waits for the run to go quiet, and collects the declared
// outputs. A graph without trigger nodes is a no-op producing no outputs.
//
// The returned error is the first failure propagated along an awaited
// trigger path; branches that were fired and forgotten before the failure
// keep running (and may fail independently) without affecting it. Even on
// error the Result carries the per-node status snapshot.
func (e *Engine) Run(ctx context.Context, g *graph.Graph, params map[string]any, env map[string]string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph validation failed: %w", err)
	}
	if err := e.verify(g); err != nil {
		return nil, fmt.Errorf("graph validation failed: %w", err)
	}

	rs := newRunState(g, params, env, e.randSeed())
	e.emit(ctx, observe.Event{
		Type: observe.EventRunStarted, Level: slog.LevelInfo, RunID: rs.id,
		Data: map[string]any{"workflow": g.Name, "nodes": g.Len()},
	})

	var triggers []*graph.Node
	for _, n := range g.Nodes() {
		if beh, ok := e.reg.Lookup(n.Behavior); ok && beh.Kind == registry.KindEvent {
			triggers = append(triggers, n)
		}
	}
	if len(triggers) == 0 {
		logger.Warn("Workflow has no trigger nodes, nothing to run.", "workflow", g.Name)
		e.emit(ctx, observe.Event{Type: observe.EventRunFinished, Level: slog.LevelInfo, RunID: rs.id})
		return &Result{RunID: rs.id, Outputs: map[string]any{}, Nodes: rs.snapshot()}, nil
	}

	// Triggers are fully independent; no ordering between them is
	// guaranteed. A plain group (no shared cancel) keeps a failing trigger
	// path from tearing down its siblings.
	var eg errgroup.Group
	for _, trigger := range triggers {
		eg.Go(func() error {
			return e.executeAndContinue(ctx, rs, trigger)
		})
	}
	runErr := eg.Wait()

	// Quiescence: wait out every detached continuation before reading
	// results for the output object.
	rs.detached.Wait()

	result := &Result{
		RunID:   rs.id,
		Outputs: e.collectOutputs(rs),
		Nodes:   rs.snapshot(),
	}
	e.emit(ctx, observe.Event{
		Type: observe.EventRunFinished, Level: slog.LevelInfo, RunID: rs.id,
		Data: map[string]any{"workflow": g.Name, "failed": runErr != nil},
	})
	return result, runErr
}

// RunGraph implements registry.GraphRunner for composition behaviors.
func (e *Engine) RunGraph(ctx context.Context, g *graph.Graph, params map[string]any, env map[string]string) (map[string]any, error) {
	result, err := e.Run(ctx, g, params, env)
	if result == nil {
		return nil, err
	}
	return result.Outputs, err
}

// verify checks the definition against the registry: behaviors must be
// registered, node ports must be declared by their behavior, and bindings,
// fields, and connection targets must name parameters the behavior declares.
func (e *Engine) verify(g *graph.Graph) error {
	for _, n := range g.Nodes() {
		beh, ok := e.reg.Lookup(n.Behavior)
		if !ok {
			return fmt.Errorf("node '%s' references unknown behavior '%s'", n.ID, n.Behavior)
		}
		for _, p := range n.Ports {
			if !beh.HasPort(p.Name) {
				return fmt.Errorf("node '%s' declares port '%s' which behavior '%s' does not have", n.ID, p.Name, n.Behavior)
			}
			for _, c := range p.Connections {
				if c.Port == "" {
					continue
				}
				target, ok := g.Node(c.Node)
				if !ok {
					continue // Validate already rejected dangling connections
				}
				targetBeh, ok := e.reg.Lookup(target.Behavior)
				if !ok {
					continue // caught when the target node itself is verified
				}
				if _, ok := targetBeh.Param(c.Port); !ok {
					return fmt.Errorf("node '%s' port '%s' feeds unknown input '%s' on node '%s'", n.ID, p.Name, c.Port, c.Node)
				}
			}
		}
		for _, b := range n.Inputs {
			if _, ok := beh.Param(b.Param); !ok {
				return fmt.Errorf("node '%s' binds unknown parameter '%s' of behavior '%s'", n.ID, b.Param, n.Behavior)
			}
		}
		for name := range n.Fields {
			if _, ok := beh.Param(name); !ok {
				return fmt.Errorf("node '%s' sets unknown field '%s' of behavior '%s'", n.ID, name, n.Behavior)
			}
		}
	}
	return nil
}

// collectOutputs merges behavior-written outputs with the declared output
// projections; declarations win on name collisions.
func (e *Engine) collectOutputs(rs *runState) map[string]any {
	out := make(map[string]any)
	rs.outMu.Lock()
	for k, v := range rs.outputs {
		out[k] = v
	}
	rs.outMu.Unlock()

	for _, decl := range rs.graph.Outputs {
		result, ok := rs.state(decl.Node).value()
		if !ok {
			continue
		}
		if decl.Path == "" {
			out[decl.Name] = result
			continue
		}
		out[decl.Name] = extractPath(result, decl.Path)
	}
	return out
}

// invocation builds the per-call dependency bundle for a behavior.
func (e *Engine) invocation(rs *runState, node *graph.Node) *registry.Invocation {
	return &registry.Invocation{
		RunID:      rs.id,
		Workflow:   rs.graph.Name,
		NodeID:     node.ID,
		Params:     rs.params,
		Env:        rs.env,
		HTTPClient: e.httpClient,
		Rand:       rs.rand,
		Clock:      e.clock,
		Store:      e.store,
		Runner:     e,
	}
}

func (e *Engine) emit(ctx context.Context, event observe.Event) {
	event.Timestamp = e.clock()
	e.obs.OnEvent(ctx, event)
}
