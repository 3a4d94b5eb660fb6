package engine

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/wireflow/internal/graph"
)

// NodeStatus is a point-in-time view of one node's transient run state,
// exposed for progress reporting.
type NodeStatus struct {
	// Running is true while the node's behavior is being invoked.
	Running bool
	// Done is true once the node has a memoized result or error and has not
	// been cleared since.
	Done bool
	// Error holds the failure message of an errored node.
	Error string
	// Result is the node's last computed result.
	Result any
}

// nodeState is the run-scoped mutable state of a single node. The mutex
// guards the whole record; begin/finish bracket an invocation so that a
// node executes at most once between clears even under concurrent fan-in.
type nodeState struct {
	mu      sync.Mutex
	running bool
	done    bool
	result  any
	err     error
}

// begin claims the node for execution. It reports whether the node is
// already done (returning the memoized error) or already being executed by
// another activity; in both cases the caller must not run the behavior.
func (ns *nodeState) begin() (alreadyDone bool, memoErr error, inFlight bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if ns.done {
		return true, ns.err, false
	}
	if ns.running {
		return false, nil, true
	}
	ns.running = true
	return false, nil, false
}

// finish records the invocation outcome and releases the running claim.
func (ns *nodeState) finish(result any, err error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.running = false
	ns.done = true
	ns.result = result
	ns.err = err
}

// setResult overwrites the memoized result, marking the node as computed.
// Loop behaviors use this to stash the current iteration item.
func (ns *nodeState) setResult(v any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.done = true
	ns.err = nil
	ns.result = v
}

// value returns the memoized result, if the node has one.
func (ns *nodeState) value() (any, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if !ns.done || ns.err != nil {
		return nil, false
	}
	return ns.result, true
}

// reset clears the memoized result and error so the next activation
// recomputes the node. A node that is currently executing is left alone.
func (ns *nodeState) reset() {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if ns.running {
		return
	}
	ns.done = false
	ns.result = nil
	ns.err = nil
}

// status returns a snapshot of the record.
func (ns *nodeState) status() NodeStatus {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	st := NodeStatus{
		Running: ns.running,
		Done:    ns.done,
		Result:  ns.result,
	}
	if ns.err != nil {
		st.Error = ns.err.Error()
	}
	return st
}

// runState is the side table holding everything a single run mutates:
// per-node state records, the shared output map, and the quiescence wait
// group for detached continuations. It is discarded when the run ends.
type runState struct {
	id     string
	graph  *graph.Graph
	params map[string]any
	env    map[string]string
	rand   *rand.Rand

	// detached counts fired-and-forgotten continuations so the run can
	// reach quiescence before outputs are collected.
	detached sync.WaitGroup

	outMu   sync.Mutex
	outputs map[string]any

	mu    sync.Mutex
	nodes map[string]*nodeState
}

func newRunState(g *graph.Graph, params map[string]any, env map[string]string, seed uint64) *runState {
	if params == nil {
		params = map[string]any{}
	}
	if env == nil {
		env = map[string]string{}
	}
	return &runState{
		id:      uuid.NewString(),
		graph:   g,
		params:  params,
		env:     env,
		rand:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		outputs: make(map[string]any),
		nodes:   make(map[string]*nodeState),
	}
}

// state returns the state record for a node id, creating it on first use.
func (rs *runState) state(id string) *nodeState {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	ns, ok := rs.nodes[id]
	if !ok {
		ns = &nodeState{}
		rs.nodes[id] = ns
	}
	return ns
}

// setOutput writes into the run's shared output map.
func (rs *runState) setOutput(name string, v any) {
	rs.outMu.Lock()
	defer rs.outMu.Unlock()
	rs.outputs[name] = v
}

// snapshot captures the status of every graph node.
func (rs *runState) snapshot() map[string]NodeStatus {
	out := make(map[string]NodeStatus, rs.graph.Len())
	for _, n := range rs.graph.Nodes() {
		out[n.ID] = rs.state(n.ID).status()
	}
	return out
}
