package registry

import (
	"context"
	"math/rand/v2"
	"net/http"
	"reflect"
	"time"

	"github.com/vk/wireflow/internal/graph"
	"github.com/vk/wireflow/internal/store"
)

// Kind classifies a behavior and drives the engine's continuation rules
// after the behavior's node has produced a result.
type Kind int

const (
	// KindFunction is a plain computation. After it completes, the
	// connections on its default output port are fired without being
	// awaited by the node itself.
	KindFunction Kind = iota

	// KindBooleanBranch routes control flow. Every boolean-tagged field of
	// its result that is true activates the output port of the same name.
	// Zero, one, or several ports may fire in the same invocation.
	KindBooleanBranch

	// KindLoop drives its own downstream flow through the Handle it is
	// invoked with. The engine performs no automatic propagation for it.
	KindLoop

	// KindEvent marks a trigger node. It has no computed result; running it
	// fires every connection on every declared port and waits for all of
	// them to finish.
	KindEvent
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindBooleanBranch:
		return "boolean-branch"
	case KindLoop:
		return "loop"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// ParamRole describes how a behavior parameter is supplied at run time.
type ParamRole int

const (
	// RolePort parameters are resolved from upstream node results via the
	// node's input bindings.
	RolePort ParamRole = iota

	// RoleField parameters are literal values baked into the node by the
	// workflow author.
	RoleField
)

// String returns the human-readable name of the role.
func (r ParamRole) String() string {
	if r == RoleField {
		return "field"
	}
	return "port"
}

// Param is one user-facing parameter of a behavior, derived from the `wf`
// struct tags on the behavior's input struct. Engine-injected arguments
// (Handle, *Invocation) never appear here; they are filtered out of the
// user-facing list entirely.
type Param struct {
	// Name is the parameter name as it appears in workflow definitions.
	Name string
	// Role says whether the value arrives over a data port or as a literal field.
	Role ParamRole
	// Type is the Go type of the destination struct field.
	Type reflect.Type
	// FieldIndex addresses the destination field within the input struct.
	FieldIndex []int
}

// DefaultPort is the output port implicitly declared by Function and Event
// behaviors that do not declare ports of their own.
const DefaultPort = "action"

// Handle is the per-invocation flow-control surface passed to behaviors that
// manage their own downstream execution (loops and similar constructs). It is
// implemented by the engine and injected into any behavior function that
// declares a Handle parameter.
type Handle interface {
	// RunPort executes every node reachable from the named output port and
	// does not return until that entire downstream subgraph has finished.
	RunPort(ctx context.Context, port string) error

	// ClearDownstream resets the memoized result and error of every node
	// reachable from the named output port, so the next RunPort recomputes
	// the subgraph instead of seeing stale values.
	ClearDownstream(ctx context.Context, port string)

	// Result returns the current result value of the behavior's own node.
	Result() any

	// SetResult overwrites the behavior's own node result. Loop behaviors
	// use this to expose the current item and index to the body subgraph.
	SetResult(v any)

	// Input re-resolves the named input binding against the current upstream
	// state. Loop conditions are re-evaluated each pass through this.
	Input(ctx context.Context, param string) (any, error)

	// SetOutput writes a value into the run's shared output map.
	SetOutput(name string, v any)
}

// GraphRunner runs a complete graph and returns its output object. It is the
// seam the workflow-composition behavior uses to execute a sub-graph without
// depending on the engine package directly.
type GraphRunner interface {
	RunGraph(ctx context.Context, g *graph.Graph, params map[string]any, env map[string]string) (map[string]any, error)
}

// Invocation carries the per-run dependencies a behavior may need. It is
// built by the engine for each behavior call and injected into any behavior
// function that declares an *Invocation parameter. Nothing here is global:
// the HTTP client, random source, and clock all belong to the run.
type Invocation struct {
	// RunID identifies the run this invocation belongs to.
	RunID string
	// Workflow is the name of the graph being executed.
	Workflow string
	// NodeID is the graph node bound to this invocation.
	NodeID string

	// Params are the run's immutable input parameters.
	Params map[string]any
	// Env is the run's inherited environment-value set.
	Env map[string]string

	// HTTPClient is the run-scoped HTTP client.
	HTTPClient *http.Client
	// Rand is the run-scoped random source. It is not safe for use by
	// concurrently executing behaviors of the same run.
	Rand *rand.Rand
	// Clock returns the current time; tests substitute a fixed clock.
	Clock func() time.Time

	// Store resolves workflow definitions by identifier for composition nodes.
	Store store.Store
	// Runner executes sub-graphs for composition nodes.
	Runner GraphRunner
}

// Behavior holds the compiled Go parts of a registered behavior along with
// the metadata the engine uses to bind graph nodes to it.
type Behavior struct {
	// Category is a free-form grouping tag ("math", "flow", ...).
	Category string
	// Kind is the behavior's classification.
	Kind Kind
	// NewInput returns a fresh pointer to the behavior's input struct, or
	// nil for behaviors that take no user-facing parameters.
	NewInput func() any
	// InputType is the (non-pointer) type of the input struct, used for
	// metadata derivation and validation.
	InputType reflect.Type
	// Ports lists the declared output flow ports. When empty, Function and
	// Event behaviors get DefaultPort and BooleanBranch behaviors derive
	// one port per boolean-tagged field of their result type.
	Ports []string
	// Fn is the behavior function. Its shape is
	//
	//	func(ctx context.Context, <injected...>, input *Input) (T, error)
	//
	// where injected arguments are recognized by type (Handle, *Invocation),
	// the input argument is present only when NewInput is set, and the T
	// return is optional. Event behaviors may omit Fn entirely.
	Fn any

	name      string
	params    []Param
	ports     []string
	injected  []reflect.Type
	hasResult bool
}

// Name returns the identity string the behavior was registered under.
func (b *Behavior) Name() string { return b.name }

// Params returns the user-facing parameters in declaration order.
func (b *Behavior) Params() []Param { return b.params }

// Param returns the named parameter, if declared.
func (b *Behavior) Param(name string) (Param, bool) {
	for _, p := range b.params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// PortParams returns only the parameters resolved over data ports.
func (b *Behavior) PortParams() []Param { return b.paramsByRole(RolePort) }

// FieldParams returns only the literal-field parameters.
func (b *Behavior) FieldParams() []Param { return b.paramsByRole(RoleField) }

func (b *Behavior) paramsByRole(role ParamRole) []Param {
	var out []Param
	for _, p := range b.params {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// OutputPorts returns the effective output port names after validation,
// including any defaulted or derived ports.
func (b *Behavior) OutputPorts() []string { return b.ports }

// HasPort reports whether the behavior declares the named output port.
func (b *Behavior) HasPort(name string) bool {
	for _, p := range b.ports {
		if p == name {
			return true
		}
	}
	return false
}

// HasResult reports whether Fn returns a value in addition to its error.
func (b *Behavior) HasResult() bool { return b.hasResult }

// Injected returns the types of the engine-injected arguments between the
// context and the input struct, in signature order.
func (b *Behavior) Injected() []reflect.Type { return b.injected }
